// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes the produced dataset tables and the run summary.
package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// File names of the produced tables.
const (
	PublicationsFile    = "publications.csv"
	CandidatesFile      = "candidates.csv"
	UniversitiesFile    = "universities.csv"
	AcademicMetricsFile = "academic_metrics.csv"
	TopicsFile          = "research_topics.csv"
	CandidateTopicsFile = "candidate_topics.csv"
	SummaryFile         = "RUN_SUMMARY.json"
)

// Table is an append-only CSV table of T rows. The header is written on
// creation. Rows are buffered; Flush pushes them to the file.
type Table[T types.Row] struct {
	path string
	f    *os.File
	buf  *bufio.Writer
	w    *csv.Writer
	rows int
}

// Create truncates or creates dir/name and writes the header.
func Create[T types.Row](dir, name string) (*Table[T], error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	buf := bufio.NewWriterSize(f, 1<<16)
	t := &Table[T]{path: path, f: f, buf: buf, w: csv.NewWriter(buf)}

	var zero T
	if err := t.w.Write(zero.Columns()); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header to %s: %w", path, err)
	}
	return t, nil
}

// Append writes one row.
func (t *Table[T]) Append(row T) error {
	if err := t.w.Write(row.Values()); err != nil {
		return fmt.Errorf("writing row to %s: %w", t.path, err)
	}
	t.rows++
	return nil
}

// Rows returns the number of data rows appended.
func (t *Table[T]) Rows() int { return t.rows }

// Path returns the table's file path.
func (t *Table[T]) Path() string { return t.path }

// Flush pushes buffered rows to the operating system.
func (t *Table[T]) Flush() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", t.path, err)
	}
	if err := t.buf.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", t.path, err)
	}
	return nil
}

// Close flushes and closes the file.
func (t *Table[T]) Close() error {
	if err := t.Flush(); err != nil {
		t.f.Close()
		return err
	}
	if err := t.f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", t.path, err)
	}
	return nil
}

// WriteTable writes a complete table in one call.
func WriteTable[T types.Row](dir, name string, rows []T) error {
	t, err := Create[T](dir, name)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := t.Append(r); err != nil {
			t.Close()
			return err
		}
	}
	return t.Close()
}

// WriteSummary writes the run summary as indented JSON.
func WriteSummary(dir string, s types.RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	path := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSummary reads a run summary written by WriteSummary.
func ReadSummary(dir string) (types.RunSummary, error) {
	var s types.RunSummary
	path := filepath.Join(dir, SummaryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}
