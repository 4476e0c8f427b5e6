package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// RowWriter appends CSV rows to an output file, writing the header once.
// The output file is truncated when the writer is created, so a fresh run
// always replaces stale results. Each row is flushed as it is written so
// partial results survive an interrupted batch.
type RowWriter struct {
	file        *os.File
	writer      *csv.Writer
	header      []string
	wroteHeader bool
}

// NewRowWriter creates a writer for the given output path and header
func NewRowWriter(path string, header []string) (*RowWriter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output CSV: %w", err)
	}

	return &RowWriter{
		file:   file,
		writer: csv.NewWriter(file),
		header: header,
	}, nil
}

// Append writes one row, preceded by the header on first use
func (w *RowWriter) Append(row []string) error {
	if !w.wroteHeader {
		if err := w.writer.Write(w.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.wroteHeader = true
	}

	if len(row) != len(w.header) {
		return fmt.Errorf("row has %d fields, header has %d", len(row), len(w.header))
	}

	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the output file
func (w *RowWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
