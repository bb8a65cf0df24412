// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TopicRule maps a topic label to the keywords that select it. Rules are
// evaluated in slice order; the first rule with any matching keyword wins.
type TopicRule struct {
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ScoreWeights are the weights of the four ranking sub-scores.
type ScoreWeights struct {
	Citations    float64 `json:"citations" yaml:"citations"`
	HIndex       float64 `json:"h_index" yaml:"h_index"`
	Publications float64 `json:"publications" yaml:"publications"`
	Impact       float64 `json:"impact" yaml:"impact"`
}

// IsZero reports whether no weight has been set.
func (w ScoreWeights) IsZero() bool {
	return w == ScoreWeights{}
}

// Policy is the editable heuristic configuration: topic priority list and
// ranking weights.
type Policy struct {
	Topics  []TopicRule  `json:"topics,omitempty" yaml:"topics,omitempty"`
	Weights ScoreWeights `json:"weights" yaml:"weights"`
}
