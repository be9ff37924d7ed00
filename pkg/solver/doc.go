// Package solver models Thoth solver result documents and extracts the
// Python package metadata needed to locate a project's source repository.
//
// A solver document records the outcome of resolving one package in a
// particular environment. Only the first entry of its dependency tree is
// inspected: that entry describes the package the solver was asked about, and
// its importlib metadata carries the core metadata fields published on PyPI:
//
//	{
//	  "metadata": {"document_id": "solver-fedora-34-py39-...", "datetime": "2021-06-01T10:11:12.000000"},
//	  "result": {
//	    "tree": [{
//	      "package_name": "flask",
//	      "importlib_metadata": {"metadata": {
//	        "Name": "Flask",
//	        "Home-page": "https://palletsprojects.com/p/flask",
//	        "Project-URL": ["Source Code, https://github.com/pallets/flask/"]
//	      }}
//	    }]
//	  }
//	}
//
// [Extract] turns a document into a [Package] carrying the package name and an
// ordered list of URL candidates. The order depends on the consumer, see
// [Order].
package solver
