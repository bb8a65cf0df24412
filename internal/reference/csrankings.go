// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/candidate-dataset/internal/httputil"
)

// DefaultCSRankingsBaseURL serves csrankings-a.csv through csrankings-z.csv.
const DefaultCSRankingsBaseURL = "https://raw.githubusercontent.com/emeryberger/CSrankings/gh-pages/"

// CSRankingsConfig controls FetchCSRankings.
type CSRankingsConfig struct {
	BaseURL    string
	UserAgent  string
	MaxRetries int
}

// FacultyRow is one deduplicated author affiliation.
type FacultyRow struct {
	AuthorName     string
	UniversityName string
	Department     string
	Homepage       string
	SourceFile     string
}

// FetchSummary counts the outcome of a CSRankings download.
type FetchSummary struct {
	Files      int
	Skipped    int
	Rows       int
	Duplicates int
}

// FetchCSRankings downloads the per-letter CSRankings files, keeps rows with
// an affiliation, and deduplicates by author name keeping the first row.
// Letters that fail or answer non-200 are skipped with a warning.
func FetchCSRankings(ctx context.Context, client *http.Client, cfg CSRankingsConfig, log zerolog.Logger) ([]FacultyRow, FetchSummary, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultCSRankingsBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var (
		summary FetchSummary
		rows    []FacultyRow
		seen    = make(map[string]bool)
	)

	for c := 'a'; c <= 'z'; c++ {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		name := fmt.Sprintf("csrankings-%c.csv", c)
		fileRows, err := fetchCSRankingsFile(ctx, client, base+name, cfg)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, summary, err
			}
			log.Warn().Str("file", name).Err(err).Msg("skipping csrankings file")
			summary.Skipped++
			continue
		}
		summary.Files++
		log.Debug().Str("file", name).Int("rows", len(fileRows)).Msg("downloaded")

		for _, r := range fileRows {
			if r.UniversityName == "" {
				continue
			}
			if seen[r.AuthorName] {
				summary.Duplicates++
				continue
			}
			seen[r.AuthorName] = true
			r.SourceFile = name
			rows = append(rows, r)
		}
	}
	summary.Rows = len(rows)
	return rows, summary, nil
}

func fetchCSRankingsFile(ctx context.Context, client *http.Client, url string, cfg CSRankingsConfig) ([]FacultyRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return parseCSRankings(resp.Body)
}

func parseCSRankings(r io.Reader) ([]FacultyRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []FacultyRow
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		out = append(out, FacultyRow{
			AuthorName:     field(row, "name"),
			UniversityName: field(row, "affiliation"),
			Department:     field(row, "dept"),
			Homepage:       field(row, "homepage"),
		})
	}
	return out, nil
}

// WriteAffiliations writes rows as the affiliation index CSV read by
// LoadAffiliations.
func WriteAffiliations(path string, rows []FacultyRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	w.Write([]string{"author_name", "university_name", "department", "homepage", "source_file"})
	for _, r := range rows {
		w.Write([]string{r.AuthorName, r.UniversityName, r.Department, r.Homepage, r.SourceFile})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
