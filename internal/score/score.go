// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes bibliometric indicators for a candidate.
package score

import (
	"math"
	"sort"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// DefaultWeights are the hand-tuned ranking weights.
var DefaultWeights = types.ScoreWeights{
	Citations:    0.35,
	HIndex:       0.25,
	Publications: 0.25,
	Impact:       0.15,
}

// subScoreCap bounds every ranking sub-score.
const subScoreCap = 100.0

// HIndex returns the largest r such that the r-th largest count is at least
// r. Negative counts are treated as zero.
func HIndex(citations []int) int {
	sorted := make([]int, len(citations))
	for i, c := range citations {
		sorted[i] = max(c, 0)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, c := range sorted {
		if c >= i+1 {
			h = i + 1
		}
	}
	return h
}

// Sum returns the total of counts.
func Sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

// Scorer combines the capped sub-scores into a ranking score.
type Scorer struct {
	weights types.ScoreWeights
}

// NewScorer returns a Scorer using w, or DefaultWeights when w is zero.
func NewScorer(w types.ScoreWeights) *Scorer {
	if w.IsZero() {
		w = DefaultWeights
	}
	return &Scorer{weights: w}
}

// RankingScore returns the weighted sum of the citation, h-index,
// publication-count, and impact sub-scores, rounded to the nearest integer.
func (s *Scorer) RankingScore(totalCitations, hIndex, publicationCount int) int {
	citationScore := math.Min(float64(totalCitations)/10.0, subScoreCap)
	hIndexScore := math.Min(float64(hIndex)*12.0, subScoreCap)
	publicationScore := math.Min(float64(publicationCount)*15.0, subScoreCap)

	avg := 0.0
	if publicationCount > 0 {
		avg = float64(totalCitations) / float64(publicationCount)
	}
	impactScore := math.Min(avg/3.0, subScoreCap)

	return roundHalfEven(citationScore*s.weights.Citations +
		hIndexScore*s.weights.HIndex +
		publicationScore*s.weights.Publications +
		impactScore*s.weights.Impact)
}

// roundHalfEven rounds ties to the nearest even integer.
func roundHalfEven(x float64) int {
	return int(math.RoundToEven(x))
}
