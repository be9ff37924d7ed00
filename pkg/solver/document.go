package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrDecode marks a document that is not valid solver JSON.
var ErrDecode = errors.New("decode solver document")

// Core metadata field names read from importlib metadata.
const (
	FieldName       = "Name"
	FieldHomePage   = "Home-page"
	FieldProjectURL = "Project-URL"
)

// Document is a single solver result.
type Document struct {
	Metadata DocumentMetadata `json:"metadata"`
	Result   Result           `json:"result"`
}

// DocumentMetadata is the envelope metadata written by the solver.
type DocumentMetadata struct {
	DocumentID string `json:"document_id,omitempty"`
	Datetime   string `json:"datetime,omitempty"`
}

// Result holds the resolved dependency tree.
type Result struct {
	Tree []TreeEntry `json:"tree"`
}

// TreeEntry is one resolved package in the dependency tree.
type TreeEntry struct {
	PackageName       string            `json:"package_name,omitempty"`
	PackageVersion    string            `json:"package_version,omitempty"`
	ImportlibMetadata ImportlibMetadata `json:"importlib_metadata"`
}

// ImportlibMetadata wraps the metadata mapping reported by importlib.
type ImportlibMetadata struct {
	Metadata PackageMetadata `json:"metadata"`
}

// PackageMetadata is the raw core metadata mapping. Values keep their JSON
// shape: strings, nulls, or lists of strings for multi-use fields.
type PackageMetadata map[string]any

// Decode parses a JSON-encoded solver document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &doc, nil
}

// Date returns the calendar date the document was produced, taken from the
// leading YYYY-MM-DD of metadata.datetime. ok is false when the datetime is
// missing or malformed.
func (d *Document) Date() (date time.Time, ok bool) {
	s := d.Metadata.Datetime
	if len(s) < len("2006-01-02") {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PackageMetadata returns the importlib metadata of the first tree entry.
// ok is false when the tree is empty.
func (d *Document) PackageMetadata() (m PackageMetadata, ok bool) {
	if len(d.Result.Tree) == 0 {
		return nil, false
	}
	return d.Result.Tree[0].ImportlibMetadata.Metadata, true
}

// Name returns the Name field, or "" when absent or not a string.
func (m PackageMetadata) Name() string {
	return m.str(FieldName)
}

// HomePage returns the Home-page field, or "" when absent or null.
func (m PackageMetadata) HomePage() string {
	return m.str(FieldHomePage)
}

// ProjectURLs returns the raw Project-URL entries ("label, url").
// A single string value is treated as a one-element list.
func (m PackageMetadata) ProjectURLs() []string {
	switch v := m[FieldProjectURL].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

func (m PackageMetadata) str(key string) string {
	s, _ := m[key].(string)
	return s
}
