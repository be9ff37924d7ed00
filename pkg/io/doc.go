// Package io writes run results as YAML.
//
// # Format
//
// Results are plain YAML documents with two-space indentation. Mappings are
// emitted with sorted keys, so the same result always renders the same
// bytes:
//
//	flask:
//	  - https://github.com/pallets/flask
//	requests: []
//
// # Destinations
//
// Use [WriteYAML] to encode to any io.Writer, or [Export] to write to a
// path. The path "-" (or an empty path) means the supplied stdout writer.
// A file destination is rendered in memory first and only created once
// encoding succeeded, so a failed run never truncates an earlier report.
package io
