// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// Sink is a database that accepts dataset rows.
type Sink interface {
	// CreateSchema creates any missing tables and indexes.
	CreateSchema(ctx context.Context) error
	// Upsert writes rows into t in one transaction or batch. Each row holds
	// one value per column of t, in order.
	Upsert(ctx context.Context, t Table, rows [][]any) error
	Close() error
}

// Open connects to the database named by cfg.
func Open(ctx context.Context, cfg types.LoadConfig) (Sink, error) {
	switch cfg.Driver {
	case types.DriverSQLite, "":
		s, err := OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.DriverPostgres:
		p, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported load driver %q", cfg.Driver)
	}
}

// TableResult holds the counts for one loaded table.
type TableResult struct {
	Table   string
	Loaded  int
	Dropped int
}

// LoadSummary holds counts from a load run.
type LoadSummary struct {
	Tables []TableResult
}

// Total returns the number of rows loaded across all tables.
func (s LoadSummary) Total() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Loaded
	}
	return n
}

// Dropped returns the number of rows skipped for an empty primary key.
func (s LoadSummary) Dropped() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Dropped
	}
	return n
}

// Load creates the schema and upserts every table found in dir, in
// foreign-key order. Rows are sent in batches of batchSize.
func Load(ctx context.Context, sink Sink, dir string, batchSize int, w io.Writer) (LoadSummary, error) {
	if batchSize <= 0 {
		batchSize = types.DefaultLoadBatchSize
	}
	var summary LoadSummary

	if err := sink.CreateSchema(ctx); err != nil {
		return summary, fmt.Errorf("creating schema: %w", err)
	}

	for _, t := range Tables {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		res, err := loadTable(ctx, sink, dir, t, batchSize)
		summary.Tables = append(summary.Tables, res)
		if err != nil {
			return summary, fmt.Errorf("loading %s: %w", t.Name, err)
		}
		if res.Dropped > 0 {
			fmt.Fprintf(w, "loaded  %s: %d rows (%d dropped without a key)\n", t.Name, res.Loaded, res.Dropped)
		} else {
			fmt.Fprintf(w, "loaded  %s: %d rows\n", t.Name, res.Loaded)
		}
	}

	fmt.Fprintf(w, "\nloaded: %d, dropped: %d\n", summary.Total(), summary.Dropped())
	return summary, nil
}

func loadTable(ctx context.Context, sink Sink, dir string, t Table, batchSize int) (TableResult, error) {
	res := TableResult{Table: t.Name}

	path := filepath.Join(dir, t.File)
	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("reading header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, k := range t.Key {
		if _, ok := index[k]; !ok {
			return res, fmt.Errorf("%s has no %s column", path, k)
		}
	}

	batch := make([][]any, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sink.Upsert(ctx, t, batch); err != nil {
			return err
		}
		res.Loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", path, err)
		}

		row, ok := convertRow(t, index, rec)
		if !ok {
			res.Dropped++
			continue
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	return res, flush()
}

// convertRow maps a CSV record onto t's columns. It reports false when any
// key column is empty.
func convertRow(t Table, index map[string]int, rec []string) ([]any, bool) {
	row := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		var raw string
		if j, ok := index[c.Name]; ok && j < len(rec) {
			raw = strings.TrimSpace(rec[j])
		}
		if raw == "" && t.isKey(c.Name) {
			return nil, false
		}
		row[i] = convertValue(c.Kind, raw)
	}
	return row, true
}

func convertValue(kind Kind, raw string) any {
	switch kind {
	case Int:
		n, ok := parseInt(raw)
		if !ok {
			return int64(0)
		}
		return n
	case NullInt:
		n, ok := parseInt(raw)
		if !ok {
			return nil
		}
		return n
	case Real:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return float64(0)
		}
		return f
	default:
		return raw
	}
}

// parseInt accepts integers and integral floats such as "2019.0".
func parseInt(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
