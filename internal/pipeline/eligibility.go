// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pdiddy/candidate-dataset/internal/corpus"
	"github.com/pdiddy/candidate-dataset/internal/names"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// FirstYears tracks the earliest publication year seen per author key.
type FirstYears map[string]int

// Observe folds one record into the running minimum. Records without a
// parsable year or without authors leave the map unchanged.
func (f FirstYears) Observe(rec types.CorpusRecord) {
	year, ok := corpus.ParseYear(rec.PubDate)
	if !ok {
		return
	}
	authors, _ := names.ParseAuthors(rec.Author)
	for _, a := range authors {
		if a == "" {
			continue
		}
		if prev, seen := f[a]; !seen || year < prev {
			f[a] = year
		}
	}
}

// Merge folds other into f. Min is commutative and associative, so merging
// per-chunk partials in any grouping gives the same result as one scan.
func (f FirstYears) Merge(other FirstYears) {
	for a, y := range other {
		if prev, seen := f[a]; !seen || y < prev {
			f[a] = y
		}
	}
}

// Eligible returns the authors whose first year lies in [yearMin, yearMax].
func (f FirstYears) Eligible(yearMin, yearMax int) *EligibleSet {
	s := &EligibleSet{members: make(map[string]struct{})}
	for a, y := range f {
		if y >= yearMin && y <= yearMax {
			s.members[a] = struct{}{}
		}
	}
	return s
}

// EligibleSet is the immutable author population produced by the first pass.
// It is safe for concurrent reads.
type EligibleSet struct {
	members map[string]struct{}
}

// NewEligibleSet builds a set from explicit keys.
func NewEligibleSet(keys ...string) *EligibleSet {
	s := &EligibleSet{members: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.members[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is eligible.
func (s *EligibleSet) Contains(key string) bool {
	_, ok := s.members[key]
	return ok
}

// Len returns the number of eligible authors.
func (s *EligibleSet) Len() int { return len(s.members) }

// Keys returns the members sorted.
func (s *EligibleSet) Keys() []string {
	keys := make([]string, 0, len(s.members))
	for k := range s.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EligibilityStats summarizes the first pass.
type EligibilityStats struct {
	Records      int
	Chunks       int
	AuthorsSeen  int
	EligibleSize int
}

// ScanEligibility streams the corpus once and returns the eligible set. Each
// chunk is reduced into its own partial map before merging, which keeps the
// result independent of chunk size.
func ScanEligibility(ctx context.Context, src ChunkSource, cfg types.ScanConfig, log zerolog.Logger) (*EligibleSet, EligibilityStats, error) {
	var stats EligibilityStats
	firstYears := make(FirstYears)

	scan, err := src.Scan(ctx, func(chunk []types.CorpusRecord) error {
		partial := make(FirstYears)
		for _, rec := range chunk {
			partial.Observe(rec)
		}
		firstYears.Merge(partial)
		log.Debug().Int("rows", len(chunk)).Int("authors", len(firstYears)).Msg("eligibility chunk")
		return nil
	})
	logScanWarnings(log, scan)
	stats.Records, stats.Chunks = scan.Rows, scan.Chunks
	if err != nil {
		return nil, stats, err
	}

	eligible := firstYears.Eligible(cfg.YearMin, cfg.YearMax)
	stats.AuthorsSeen = len(firstYears)
	stats.EligibleSize = eligible.Len()
	log.Info().
		Int("records", stats.Records).
		Int("authors", stats.AuthorsSeen).
		Int("eligible", stats.EligibleSize).
		Int("year_min", cfg.YearMin).
		Int("year_max", cfg.YearMax).
		Msg("eligibility pass complete")
	return eligible, stats, nil
}

func logScanWarnings(log zerolog.Logger, stats corpus.ScanStats) {
	for _, w := range stats.Warnings {
		log.Warn().Err(w).Msg("corpus header")
	}
}
