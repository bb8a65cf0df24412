// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/candidate-dataset/internal/corpus"
	"github.com/pdiddy/candidate-dataset/internal/identity"
	"github.com/pdiddy/candidate-dataset/internal/names"
	"github.com/pdiddy/candidate-dataset/internal/topic"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// PublicationSink receives publication rows as they are produced. Flush is
// called at every chunk boundary.
type PublicationSink interface {
	Append(types.PublicationRecord) error
	Flush() error
}

// Accumulator is the running aggregate of one candidate.
type Accumulator struct {
	CandidateID string
	AuthorKey   string

	// Citations and Topics hold one entry per matched publication, in corpus order.
	Citations []int
	Topics    []string

	// Coauthors holds every author key seen on a matched publication, the
	// candidate included, in first-seen order without duplicates.
	Coauthors []string

	// FirstYear is the earliest year seen, or nil if no matched record had one.
	FirstYear *int

	coauthorSeen map[string]struct{}
}

func (a *Accumulator) addCoauthors(keys []string) {
	for _, k := range keys {
		if _, ok := a.coauthorSeen[k]; ok {
			continue
		}
		a.coauthorSeen[k] = struct{}{}
		a.Coauthors = append(a.Coauthors, k)
	}
}

func (a *Accumulator) observeYear(year int, ok bool) {
	if !ok {
		return
	}
	if a.FirstYear == nil || year < *a.FirstYear {
		y := year
		a.FirstYear = &y
	}
}

// Accumulators is the keyed state owned by the aggregation pass and handed to
// the finalizer. Iteration follows first-creation order.
type Accumulators struct {
	byID  map[string]*Accumulator
	order []string
}

// NewAccumulators returns an empty set.
func NewAccumulators() *Accumulators {
	return &Accumulators{byID: make(map[string]*Accumulator)}
}

// Get returns the accumulator of candidateID, creating it on first use.
func (s *Accumulators) Get(candidateID, authorKey string) *Accumulator {
	if a, ok := s.byID[candidateID]; ok {
		return a
	}
	a := &Accumulator{
		CandidateID:  candidateID,
		AuthorKey:    authorKey,
		coauthorSeen: make(map[string]struct{}),
	}
	s.byID[candidateID] = a
	s.order = append(s.order, candidateID)
	return a
}

// Lookup returns an existing accumulator.
func (s *Accumulators) Lookup(candidateID string) (*Accumulator, bool) {
	a, ok := s.byID[candidateID]
	return a, ok
}

// Len returns the number of candidates.
func (s *Accumulators) Len() int { return len(s.order) }

// All returns the accumulators in creation order.
func (s *Accumulators) All() []*Accumulator {
	out := make([]*Accumulator, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// AggregationStats summarizes the second pass.
type AggregationStats struct {
	Records      int
	Chunks       int
	Matched      int
	Publications int
}

// Aggregator joins corpus records to the eligible set, emits publication
// rows, and updates the per-candidate accumulators. It is single-writer.
type Aggregator struct {
	eligible   *EligibleSet
	classifier *topic.Classifier
	sink       PublicationSink
	now        time.Time

	acc   *Accumulators
	stats AggregationStats
}

// NewAggregator returns an Aggregator writing rows to sink. now stamps the
// created/updated columns.
func NewAggregator(eligible *EligibleSet, classifier *topic.Classifier, sink PublicationSink, now time.Time) *Aggregator {
	return &Aggregator{
		eligible:   eligible,
		classifier: classifier,
		sink:       sink,
		now:        now,
		acc:        NewAccumulators(),
	}
}

// Observe processes one corpus record. Records with no eligible author are
// skipped without touching any state.
func (g *Aggregator) Observe(rec types.CorpusRecord) error {
	g.stats.Records++

	authors, _ := names.ParseAuthors(rec.Author)
	matched := matchEligible(authors, g.eligible)
	if len(matched) == 0 {
		return nil
	}
	g.stats.Matched++

	year, hasYear := corpus.ParseYear(rec.PubDate)
	var yearPtr *int
	if hasYear {
		yearPtr = &year
	}
	citations := corpus.ParseCitations(rec.CitationCount)
	label := g.classifier.Classify(rec.Title + " " + rec.Abstract)
	topicID := identity.Topic(label)

	for _, key := range matched {
		candidateID := identity.Candidate(key)
		row := types.PublicationRecord{
			ID:          identity.Publication(rec.ID, key),
			CandidateID: candidateID,
			Title:       rec.Title,
			Venue:       rec.Venue,
			Year:        yearPtr,
			Citations:   citations,
			DOI:         rec.DOI,
			Abstract:    rec.Abstract,
			TopicID:     topicID,
			CreatedAt:   g.now,
			UpdatedAt:   g.now,
		}
		if err := g.sink.Append(row); err != nil {
			return fmt.Errorf("appending publication %s: %w", row.ID, err)
		}
		g.stats.Publications++

		a := g.acc.Get(candidateID, key)
		a.Citations = append(a.Citations, citations)
		a.Topics = append(a.Topics, label)
		a.addCoauthors(authors)
		a.observeYear(year, hasYear)
	}
	return nil
}

// Accumulators returns the state built so far.
func (g *Aggregator) Accumulators() *Accumulators { return g.acc }

// Stats returns the counters built so far.
func (g *Aggregator) Stats() AggregationStats { return g.stats }

// matchEligible returns the distinct non-empty eligible keys in author order.
func matchEligible(authors []string, eligible *EligibleSet) []string {
	var out []string
	for i, a := range authors {
		if a == "" || !eligible.Contains(a) || containsBefore(authors, i) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsBefore(s []string, i int) bool {
	for _, v := range s[:i] {
		if v == s[i] {
			return true
		}
	}
	return false
}

// ScanAggregation runs the second pass over src. The sink is flushed after
// every chunk so peak memory stays bounded by the chunk and the accumulators.
func ScanAggregation(ctx context.Context, src ChunkSource, g *Aggregator, log zerolog.Logger) (AggregationStats, error) {
	scan, err := src.Scan(ctx, func(chunk []types.CorpusRecord) error {
		for _, rec := range chunk {
			if err := g.Observe(rec); err != nil {
				return err
			}
		}
		if err := g.sink.Flush(); err != nil {
			return err
		}
		log.Debug().
			Int("rows", len(chunk)).
			Int("publications", g.stats.Publications).
			Int("candidates", g.acc.Len()).
			Msg("aggregation chunk")
		return nil
	})
	g.stats.Chunks = scan.Chunks
	if err != nil {
		return g.stats, err
	}

	log.Info().
		Int("records", g.stats.Records).
		Int("matched", g.stats.Matched).
		Int("publications", g.stats.Publications).
		Int("candidates", g.acc.Len()).
		Msg("aggregation pass complete")
	return g.stats, nil
}
