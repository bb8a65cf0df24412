// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation resolves an author's university from the known
// affiliations of their coauthors.
package affiliation

import (
	"strings"

	"github.com/pdiddy/candidate-dataset/internal/names"
)

// Matcher looks up the affiliation of a normalized author key. Each
// implementation is one matching strategy; Chain composes them.
type Matcher interface {
	Match(authorKey string) (string, bool)
}

// IndexMatcher looks a key up in an author → university index, trying the
// key verbatim, without periods, and with its tokens reversed.
type IndexMatcher struct {
	index map[string]string
}

// NewIndexMatcher wraps index. The map is not copied and must not be
// modified afterwards.
func NewIndexMatcher(index map[string]string) *IndexMatcher {
	return &IndexMatcher{index: index}
}

func (m *IndexMatcher) Match(authorKey string) (string, bool) {
	if authorKey == "" {
		return "", false
	}
	for _, v := range names.Variants(authorKey) {
		if uni, ok := m.index[v]; ok {
			return uni, true
		}
	}
	return "", false
}

// Alias is one substring → canonical university entry.
type Alias struct {
	Key        string
	University string
}

// AliasMatcher falls back to substring containment in either direction
// between the author key and each alias key. Entries are tried in order.
type AliasMatcher struct {
	aliases []Alias
}

// NewAliasMatcher keeps aliases in the given order. Empty keys are dropped
// since they would be contained in every author key.
func NewAliasMatcher(aliases []Alias) *AliasMatcher {
	m := &AliasMatcher{aliases: make([]Alias, 0, len(aliases))}
	for _, a := range aliases {
		if a.Key != "" {
			m.aliases = append(m.aliases, a)
		}
	}
	return m
}

func (m *AliasMatcher) Match(authorKey string) (string, bool) {
	if authorKey == "" {
		return "", false
	}
	for _, a := range m.aliases {
		if strings.Contains(authorKey, a.Key) || strings.Contains(a.Key, authorKey) {
			return a.University, true
		}
	}
	return "", false
}

// Chain tries each matcher in order and returns the first hit.
type Chain []Matcher

func (c Chain) Match(authorKey string) (string, bool) {
	for _, m := range c {
		if uni, ok := m.Match(authorKey); ok && uni != "" {
			return uni, true
		}
	}
	return "", false
}
