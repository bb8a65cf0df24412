// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/candidate-dataset/internal/corpus"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// memSource is a re-scannable in-memory corpus.
type memSource struct {
	data      string
	chunkSize int
}

func (m memSource) Scan(ctx context.Context, fn corpus.ChunkFunc) (corpus.ScanStats, error) {
	return corpus.NewReader(strings.NewReader(m.data), m.chunkSize).Scan(ctx, fn)
}

const eligibilityCorpus = `id,author,pub_date,citation_count,title,abstract,venue,doi
1,"Smith, Jane; Doe, John",2019-03-01,5,,,,
2,John Doe,2015,1,,,,
3,Ann Lee,Summer 2021,0,,,,
4,Ann Lee,2016-01-01,0,,,,
5,Ann Lee,2020,0,,,,
6,Carl Ng,n.d.,3,,,,
7,Dana Ruiz,2022-12-31,3,,,,
8,Eve Park,2023,3,,,,
9,,2019,3,,,,
10,[1999],2019,3,,,,
`

func TestFirstYearsObserve(t *testing.T) {
	f := make(FirstYears)
	f.Observe(types.CorpusRecord{Author: "A One; B Two", PubDate: "2020"})
	f.Observe(types.CorpusRecord{Author: "A One", PubDate: "published 2018-05"})
	f.Observe(types.CorpusRecord{Author: "B Two", PubDate: "2021"})
	f.Observe(types.CorpusRecord{Author: "C Three", PubDate: "unknown"})

	assert.Equal(t, FirstYears{"a one": 2018, "b two": 2020}, f)
}

func TestFirstYearsMergeKeepsMinimum(t *testing.T) {
	a := FirstYears{"x": 2019, "y": 2020}
	b := FirstYears{"x": 2017, "z": 2022}
	a.Merge(b)
	assert.Equal(t, FirstYears{"x": 2017, "y": 2020, "z": 2022}, a)
}

func TestScanEligibility(t *testing.T) {
	src := memSource{data: eligibilityCorpus, chunkSize: 3}
	eligible, stats, err := ScanEligibility(context.Background(), src, types.ScanConfig{YearMin: 2017, YearMax: 2022}, zerolog.Nop())
	require.NoError(t, err)

	// john doe first published in 2015, ann lee in 2016, eve park after the
	// window, carl ng never has a year.
	assert.Equal(t, []string{"dana ruiz", "jane smith"}, eligible.Keys())
	assert.Equal(t, 10, stats.Records)
	assert.Equal(t, 4, stats.Chunks)
	assert.Equal(t, 5, stats.AuthorsSeen)
	assert.Equal(t, 2, stats.EligibleSize)
}

func TestScanEligibilityIndependentOfChunkSize(t *testing.T) {
	cfg := types.ScanConfig{YearMin: 2015, YearMax: 2021}
	want, _, err := ScanEligibility(context.Background(), memSource{data: eligibilityCorpus, chunkSize: 1000}, cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, size := range []int{1, 2, 3, 4, 7} {
		got, _, err := ScanEligibility(context.Background(), memSource{data: eligibilityCorpus, chunkSize: size}, cfg, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, want.Keys(), got.Keys(), "chunk size %d", size)
	}
}

func TestScanEligibilityCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ScanEligibility(ctx, memSource{data: eligibilityCorpus, chunkSize: 2}, types.ScanConfig{YearMin: 2017, YearMax: 2022}, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEligibleSet(t *testing.T) {
	s := NewEligibleSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}
