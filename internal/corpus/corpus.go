// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus streams the bibliographic CSV feed in bounded chunks and
// coerces its loosely typed fields.
package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// ErrMissingAuthorColumn is reported when the header has no author column.
// Scanning still proceeds; every row then has an empty author list.
var ErrMissingAuthorColumn = errors.New("corpus header has no author column")

// ErrMissingIDColumn is reported when the header has no id column. Every
// record then has an empty ID, so one author's publication IDs collide.
var ErrMissingIDColumn = errors.New("corpus header has no id column")

// Column names recognized in the corpus header (lowercased, trimmed).
const (
	colID            = "id"
	colAuthor        = "author"
	colPubDate       = "pub_date"
	colCitationCount = "citation_count"
	colTitle         = "title"
	colAbstract      = "abstract"
	colVenue         = "venue"
	colDOI           = "doi"
)

// ChunkFunc receives each chunk of records. The slice is reused between
// calls and must not be retained.
type ChunkFunc func(chunk []types.CorpusRecord) error

// ScanStats holds counts from one full pass over the corpus.
type ScanStats struct {
	Rows   int
	Chunks int
	// Warnings collects non-fatal header problems.
	Warnings []error
}

// Reader streams records from a CSV source.
type Reader struct {
	r         io.Reader
	chunkSize int
}

// NewReader returns a Reader over r yielding chunks of at most chunkSize rows.
func NewReader(r io.Reader, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = types.DefaultChunkSize
	}
	return &Reader{r: r, chunkSize: chunkSize}
}

// Scan reads every record and calls fn once per chunk. The context is checked
// between chunks. A malformed row that the CSV parser rejects aborts the scan
// since the rest of the stream can no longer be trusted.
func (rd *Reader) Scan(ctx context.Context, fn ChunkFunc) (ScanStats, error) {
	var stats ScanStats

	cr := csv.NewReader(rd.r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("reading corpus header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols[colID]; !ok {
		stats.Warnings = append(stats.Warnings, ErrMissingIDColumn)
	}
	if _, ok := cols[colAuthor]; !ok {
		stats.Warnings = append(stats.Warnings, ErrMissingAuthorColumn)
	}

	chunk := make([]types.CorpusRecord, 0, min(rd.chunkSize, 4096))
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		stats.Chunks++
		if err := fn(chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading corpus row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++
		chunk = append(chunk, cols.record(row))

		if len(chunk) >= rd.chunkSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ScanFile opens path and scans it with the given chunk size.
func ScanFile(ctx context.Context, path string, chunkSize int, fn ChunkFunc) (ScanStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanStats{}, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()
	return NewReader(f, chunkSize).Scan(ctx, fn)
}

// File is a corpus on disk that can be scanned any number of times.
type File struct {
	Path      string
	ChunkSize int
}

// Scan opens the file and streams it in chunks.
func (f File) Scan(ctx context.Context, fn ChunkFunc) (ScanStats, error) {
	return ScanFile(ctx, f.Path, f.ChunkSize, fn)
}

type columns map[string]int

func columnIndex(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columns) record(row []string) types.CorpusRecord {
	return types.CorpusRecord{
		ID:            c.get(row, colID),
		Author:        c.get(row, colAuthor),
		PubDate:       c.get(row, colPubDate),
		CitationCount: c.get(row, colCitationCount),
		Title:         c.get(row, colTitle),
		Abstract:      c.get(row, colAbstract),
		Venue:         c.get(row, colVenue),
		DOI:           c.get(row, colDOI),
	}
}

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// ParseYear returns the first 19xx or 20xx sequence found anywhere in s.
func ParseYear(s string) (int, bool) {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ParseCitations coerces a citation count to a non-negative integer.
// Missing, non-numeric, and negative values become 0; fractional values are
// truncated.
func ParseCitations(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
