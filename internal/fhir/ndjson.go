package fhir

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// NDJSONWriter writes resources in NDJSON (Newline Delimited JSON)
// format, one resource per line, as used by FHIR bulk data exchange.
type NDJSONWriter struct {
	w *bufio.Writer
}

// NewNDJSONWriter creates a writer targeting w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{w: bufio.NewWriter(w)}
}

// WriteResource serialises one resource as a single JSON line.
func (n *NDJSONWriter) WriteResource(res *Resource) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err := n.w.Write(data); err != nil {
		return err
	}
	return n.w.WriteByte('\n')
}

// Flush flushes buffered output to the underlying writer.
func (n *NDJSONWriter) Flush() error {
	return n.w.Flush()
}

// ReadNDJSON decodes a stream of newline-delimited FHIR resources.
// Blank lines are skipped; a malformed line aborts with its line number.
func ReadNDJSON(r io.Reader) ([]*Resource, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []*Resource
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		res, err := ParseResource(data)
		if err != nil {
			return nil, fmt.Errorf("decode resource on line %d: %w", line, err)
		}
		out = append(out, res)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ndjson: %w", err)
	}
	return out, nil
}
