// Package file reads solver documents from a local directory tree.
//
// Every regular file ending in ".json" or ".json.gz" below the root is a
// document. Its id is the path relative to the root without the extension,
// mirroring the object keys of the remote result store. Files are visited in
// lexical path order.
package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/thoth-station/solver-project-url/pkg/solver"
	"github.com/thoth-station/solver-project-url/pkg/store"
)

const (
	extJSON = ".json"
	extGzip = ".json.gz"
)

// Store is a directory-backed [store.Source].
type Store struct {
	root      string
	logger    *log.Logger
	connected bool
}

var _ store.Source = (*Store)(nil)

// New creates a Store rooted at dir. Nothing is read until Connect.
func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{root: dir, logger: logger}
}

// Connect verifies that the root exists and is a directory.
func (s *Store) Connect(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	s.connected = true
	return nil
}

// Iterate visits every document in path order whose date matches q.
func (s *Store) Iterate(ctx context.Context, q store.Query, fn store.VisitFunc) error {
	if !s.connected {
		return store.ErrNotConnected
	}
	paths, err := s.list()
	if err != nil {
		return err
	}
	s.logger.Debug("listed solver documents", "root", s.root, "count", len(paths))

	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := s.read(rel)
		if err != nil {
			return err
		}
		if !q.Matches(doc) {
			continue
		}
		if err := fn(documentID(rel), doc); err != nil {
			return err
		}
	}
	return nil
}

// Close does nothing for a directory store.
func (s *Store) Close(ctx context.Context) error {
	s.connected = false
	return nil
}

func (s *Store) list() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDocument(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) read(rel string) (*solver.Document, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(rel, extGzip) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	doc, err := solver.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return doc, nil
}

func isDocument(name string) bool {
	return strings.HasSuffix(name, extJSON) || strings.HasSuffix(name, extGzip)
}

func documentID(rel string) string {
	if id, ok := strings.CutSuffix(rel, extGzip); ok {
		return id
	}
	return strings.TrimSuffix(rel, extJSON)
}
