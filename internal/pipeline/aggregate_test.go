// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/candidate-dataset/internal/identity"
	"github.com/pdiddy/candidate-dataset/internal/topic"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

type memSink struct {
	rows    []types.PublicationRecord
	flushes int
	failAt  int
}

func (s *memSink) Append(r types.PublicationRecord) error {
	if s.failAt > 0 && len(s.rows)+1 == s.failAt {
		return errors.New("disk full")
	}
	s.rows = append(s.rows, r)
	return nil
}

func (s *memSink) Flush() error {
	s.flushes++
	return nil
}

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAggregator(sink PublicationSink, keys ...string) *Aggregator {
	return NewAggregator(NewEligibleSet(keys...), topic.NewClassifier(nil), sink, testClock)
}

func TestAggregatorObserve(t *testing.T) {
	sink := &memSink{}
	g := newTestAggregator(sink, "jane smith", "john doe")

	require.NoError(t, g.Observe(types.CorpusRecord{
		ID: "p1", Author: "Smith, Jane; Doe, John; Out Sider; Smith, Jane",
		PubDate: "2019-04", CitationCount: "12.7", Title: "A neural network", Venue: "NeurIPS", DOI: "10.1/x",
	}))
	require.NoError(t, g.Observe(types.CorpusRecord{
		ID: "p2", Author: "Jane Smith; New Person", PubDate: "", CitationCount: "abc",
	}))
	require.NoError(t, g.Observe(types.CorpusRecord{
		ID: "p3", Author: "Out Sider", PubDate: "2018", CitationCount: "40",
	}))

	assert.Equal(t, AggregationStats{Records: 3, Matched: 2, Publications: 3}, g.Stats())

	require.Len(t, sink.rows, 3)
	first := sink.rows[0]
	assert.Equal(t, identity.Publication("p1", "jane smith"), first.ID)
	assert.Equal(t, identity.Candidate("jane smith"), first.CandidateID)
	require.NotNil(t, first.Year)
	assert.Equal(t, 2019, *first.Year)
	assert.Equal(t, 12, first.Citations)
	assert.Equal(t, identity.Topic("deep learning"), first.TopicID)
	assert.Equal(t, "NeurIPS", first.Venue)
	assert.Equal(t, testClock, first.CreatedAt)

	assert.Equal(t, identity.Candidate("john doe"), sink.rows[1].CandidateID)
	assert.Nil(t, sink.rows[2].Year)
	assert.Equal(t, 0, sink.rows[2].Citations)
	assert.Equal(t, identity.Topic(topic.Other), sink.rows[2].TopicID)

	acc := g.Accumulators()
	require.Equal(t, 2, acc.Len())
	jane, ok := acc.Lookup(identity.Candidate("jane smith"))
	require.True(t, ok)
	assert.Equal(t, "jane smith", jane.AuthorKey)
	assert.Equal(t, []int{12, 0}, jane.Citations)
	assert.Equal(t, []string{"deep learning", topic.Other}, jane.Topics)
	assert.Equal(t, []string{"jane smith", "john doe", "out sider", "new person"}, jane.Coauthors)
	require.NotNil(t, jane.FirstYear)
	assert.Equal(t, 2019, *jane.FirstYear)

	all := acc.All()
	assert.Equal(t, "jane smith", all[0].AuthorKey)
	assert.Equal(t, "john doe", all[1].AuthorKey)
}

func TestAggregatorKeepsEarliestYear(t *testing.T) {
	g := newTestAggregator(&memSink{}, "ann lee")
	for _, d := range []string{"", "2021", "2018", "2020"} {
		require.NoError(t, g.Observe(types.CorpusRecord{ID: d, Author: "Ann Lee", PubDate: d}))
	}
	a, ok := g.Accumulators().Lookup(identity.Candidate("ann lee"))
	require.True(t, ok)
	require.NotNil(t, a.FirstYear)
	assert.Equal(t, 2018, *a.FirstYear)
}

func TestAggregatorSkipsUnmatchedRecords(t *testing.T) {
	sink := &memSink{}
	g := newTestAggregator(sink, "jane smith")
	for _, author := range []string{"", " ; ", "[n/a]", "Someone Else"} {
		require.NoError(t, g.Observe(types.CorpusRecord{ID: "x", Author: author, PubDate: "2019"}))
	}
	assert.Empty(t, sink.rows)
	assert.Zero(t, g.Accumulators().Len())
	assert.Equal(t, 4, g.Stats().Records)
	assert.Zero(t, g.Stats().Matched)
}

func TestAggregatorSinkError(t *testing.T) {
	g := newTestAggregator(&memSink{failAt: 2}, "a b", "c d")
	err := g.Observe(types.CorpusRecord{ID: "p", Author: "A B; C D"})
	assert.ErrorContains(t, err, "disk full")
}

func TestScanAggregationFlushesEveryChunk(t *testing.T) {
	sink := &memSink{}
	g := newTestAggregator(sink, "jane smith", "dana ruiz")
	stats, err := ScanAggregation(context.Background(), memSource{data: eligibilityCorpus, chunkSize: 3}, g, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Chunks)
	assert.Equal(t, 4, sink.flushes)
	assert.Equal(t, 10, stats.Records)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 2, stats.Publications)
}

func TestMatchEligible(t *testing.T) {
	eligible := NewEligibleSet("a", "b")
	tests := []struct {
		authors []string
		want    []string
	}{
		{nil, nil},
		{[]string{"c"}, nil},
		{[]string{"b", "c", "a"}, []string{"b", "a"}},
		{[]string{"a", "", "a", "b", "b"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchEligible(tt.authors, eligible), "authors %v", tt.authors)
	}
}
