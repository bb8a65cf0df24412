// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

const sampleCSV = ` ID ,Author,PUB_DATE,citation_count,title,abstract,venue,doi
W1,"Smith, Jane; Doe, John",2019-03-01,5,Deep nets,We study CNNs,NeurIPS,10.1/a
W2,Roe Richard,circa 2015,n/a,Graphs,,KDD,
W3,,2020,3,Empty authors,,,
`

func collect(t *testing.T, input string, chunkSize int) ([][]types.CorpusRecord, ScanStats) {
	t.Helper()
	var chunks [][]types.CorpusRecord
	stats, err := NewReader(strings.NewReader(input), chunkSize).Scan(context.Background(), func(c []types.CorpusRecord) error {
		chunks = append(chunks, append([]types.CorpusRecord(nil), c...))
		return nil
	})
	require.NoError(t, err)
	return chunks, stats
}

func TestScanHeaderCaseInsensitive(t *testing.T) {
	chunks, stats := collect(t, sampleCSV, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, stats.Rows)
	assert.Empty(t, stats.Warnings)

	first := chunks[0][0]
	assert.Equal(t, "W1", first.ID)
	assert.Equal(t, "Smith, Jane; Doe, John", first.Author)
	assert.Equal(t, "2019-03-01", first.PubDate)
	assert.Equal(t, "5", first.CitationCount)
	assert.Equal(t, "Deep nets", first.Title)
	assert.Equal(t, "We study CNNs", first.Abstract)
	assert.Equal(t, "NeurIPS", first.Venue)
	assert.Equal(t, "10.1/a", first.DOI)
}

func TestScanChunking(t *testing.T) {
	tests := []struct {
		chunkSize  int
		wantChunks int
	}{
		{1, 3},
		{2, 2},
		{3, 1},
		{100, 1},
	}
	for _, tt := range tests {
		chunks, stats := collect(t, sampleCSV, tt.chunkSize)
		assert.Len(t, chunks, tt.wantChunks, "chunk size %d", tt.chunkSize)
		assert.Equal(t, tt.wantChunks, stats.Chunks)

		var ids []string
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), tt.chunkSize)
			for _, r := range c {
				ids = append(ids, r.ID)
			}
		}
		assert.Equal(t, []string{"W1", "W2", "W3"}, ids)
	}
}

func TestScanMissingColumns(t *testing.T) {
	chunks, stats := collect(t, "id,title\nW1,Only title\nW2\n", 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, []error{ErrMissingAuthorColumn}, stats.Warnings)
	assert.Equal(t, "", chunks[0][0].Author)
	assert.Equal(t, "W2", chunks[0][1].ID)
	assert.Equal(t, "", chunks[0][1].Title, "short rows yield empty fields")
}

func TestScanMissingIDColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []error
	}{
		{"no id", "author,title", []error{ErrMissingIDColumn}},
		{"neither id nor author", "title,venue", []error{ErrMissingIDColumn, ErrMissingAuthorColumn}},
		{"id with padding and case", " Id ,author", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, stats := collect(t, tt.header+"\nx,y\n", 10)
			require.Len(t, chunks, 1)
			assert.Equal(t, tt.want, stats.Warnings)
		})
	}
}

func TestScanEmptyInput(t *testing.T) {
	chunks, stats := collect(t, "", 10)
	assert.Empty(t, chunks)
	assert.Equal(t, 0, stats.Rows)
}

func TestScanCallbackError(t *testing.T) {
	boom := assert.AnError
	_, err := NewReader(strings.NewReader(sampleCSV), 1).Scan(context.Background(), func([]types.CorpusRecord) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := NewReader(strings.NewReader(sampleCSV), 1).Scan(ctx, func([]types.CorpusRecord) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	rows := 0
	stats, err := ScanFile(context.Background(), path, 2, func(c []types.CorpusRecord) error {
		rows += len(c)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, stats.Rows)

	_, err = ScanFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), 2, func([]types.CorpusRecord) error { return nil })
	assert.Error(t, err)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"2019-03-01", 2019, true},
		{"circa 1987", 1987, true},
		{"published 03/2021", 2021, true},
		{"1850", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{"20190301", 2019, true},
		{"x2005y", 2005, true},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.input)
		assert.Equal(t, tt.wantOK, ok, "ParseYear(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseYear(%q)", tt.input)
	}
}

func TestParseCitations(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"  ", 0},
		{"5", 5},
		{" 12 ", 12},
		{"7.0", 7},
		{"3.9", 3},
		{"-4", 0},
		{"-4.5", 0},
		{"n/a", 0},
		{"NaN", 0},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCitations(tt.input), "ParseCitations(%q)", tt.input)
	}
}
