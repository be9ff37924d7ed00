package solver

import "strings"

// Order selects how URL candidates are arranged by [Extract].
type Order int

const (
	// ProjectURLsFirst lists every Project-URL value followed by Home-page.
	// Used when all validated URLs are collected.
	ProjectURLsFirst Order = iota

	// HomePageFirst lists Home-page before the Project-URL values.
	// Used when only the first validated URL wins.
	HomePageFirst
)

// Package is the per-document record handed to the URL validator.
type Package struct {
	Name       string
	Candidates []string
}

// Extract reads the package name and URL candidates from doc.
//
// It returns ok=false when the document has no dependency tree or the first
// tree entry has no Name; such documents contribute nothing to a run. An
// absent Home-page is kept as an empty candidate so the validator sees the
// same positions regardless of which fields a package declares.
func Extract(doc *Document, order Order) (pkg Package, ok bool) {
	meta, ok := doc.PackageMetadata()
	if !ok {
		return Package{}, false
	}
	name := meta.Name()
	if name == "" {
		return Package{}, false
	}

	entries := meta.ProjectURLs()
	candidates := make([]string, 0, len(entries)+1)
	if order == HomePageFirst {
		candidates = append(candidates, meta.HomePage())
	}
	for _, e := range entries {
		candidates = append(candidates, ProjectURLValue(e))
	}
	if order == ProjectURLsFirst {
		candidates = append(candidates, meta.HomePage())
	}
	return Package{Name: name, Candidates: candidates}, true
}

// ProjectURLValue returns the URL part of a "label, url" Project-URL entry:
// the text after the last comma, trimmed. Entries without a comma are
// returned trimmed as a whole.
func ProjectURLValue(entry string) string {
	return strings.TrimSpace(entry[strings.LastIndex(entry, ",")+1:])
}
