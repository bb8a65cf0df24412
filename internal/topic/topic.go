// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topic assigns a single topic label to free text using an ordered
// keyword table.
package topic

import (
	"strings"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// Other is returned when no rule matches.
const Other = "other"

// DefaultRules is the built-in priority list. Keyword sets overlap, so order
// decides the label.
var DefaultRules = []types.TopicRule{
	{Label: "machine learning", Keywords: []string{"machine learning", "ml", "classification"}},
	{Label: "deep learning", Keywords: []string{"neural network", "cnn", "transformer"}},
	{Label: "natural language processing", Keywords: []string{"nlp", "bert", "language model"}},
	{Label: "computer vision", Keywords: []string{"image", "vision", "object detection"}},
	{Label: "reinforcement learning", Keywords: []string{"reinforcement", "policy", "q-learning"}},
	{Label: "data mining", Keywords: []string{"clustering", "graph", "network"}},
}

// Classifier matches text against rules in declaration order.
type Classifier struct {
	rules []types.TopicRule
}

// NewClassifier builds a classifier over rules. Keywords are lowercased once
// here; empty keywords are dropped because they would match any text. A nil
// or empty rule list selects DefaultRules.
func NewClassifier(rules []types.TopicRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	c := &Classifier{rules: make([]types.TopicRule, 0, len(rules))}
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		c.rules = append(c.rules, types.TopicRule{Label: r.Label, Keywords: kws})
	}
	return c
}

// Classify returns the label of the first rule with a keyword contained in
// text (case-insensitive), or Other.
func (c *Classifier) Classify(text string) string {
	if strings.TrimSpace(text) == "" {
		return Other
	}
	s := strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(s, kw) {
				return r.Label
			}
		}
	}
	return Other
}

// Labels lists the rule labels in priority order.
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Label
	}
	return out
}
