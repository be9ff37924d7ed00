package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Stdout is the path that selects the stdout writer in [Export].
const Stdout = "-"

const indent = 2

// WriteYAML encodes v as a single YAML document and writes it to w.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes v as YAML to path, replacing any existing file. An empty
// path or [Stdout] writes to stdout instead.
func Export(path string, v any, stdout io.Writer) error {
	if path == "" || path == Stdout {
		return WriteYAML(stdout, v)
	}

	var buf bytes.Buffer
	if err := WriteYAML(&buf, v); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
