// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names canonicalizes raw author strings into the keys used for
// identity and for joining the corpus passes.
package names

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	bracketPattern  = regexp.MustCompile(`(?s)\[.*?\]`)
	bareYearPattern = regexp.MustCompile(`\b\d{4}\b`)
)

// Normalize returns the canonical key for a raw author name. It removes
// bracketed annotations and bare four-digit tokens, collapses whitespace,
// lowercases, and rewrites a single "last, first" into "first last".
// Normalize is total and idempotent; empty input yields "".
func Normalize(raw string) string {
	s := clean(raw)
	if parts := strings.Split(s, ","); len(parts) == 2 {
		// The swap can pair a "[" from one side with a "]" from the other,
		// so the result is cleaned again. It has no comma left.
		s = clean(strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0]))
	}
	return s
}

// clean strips annotations and years, collapses whitespace runs to a single
// space, and lowercases.
func clean(s string) string {
	s = bracketPattern.ReplaceAllString(s, "")
	s = bareYearPattern.ReplaceAllString(s, "")
	return strings.ToLower(strings.Join(strings.FieldsFunc(s, isSpace), " "))
}

// isSpace matches Unicode whitespace, including no-break and em spaces, and
// the ASCII information separators.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// ParseAuthors splits a semicolon-delimited author field. It returns the
// normalized names and the trimmed raw names, both in source order, with
// empty parts dropped.
func ParseAuthors(raw string) (normalized, rawNames []string) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		normalized = append(normalized, Normalize(part))
		rawNames = append(rawNames, part)
	}
	return normalized, rawNames
}

// Variants returns the lookup forms tried against an affiliation index:
// the key itself, the key without periods, and its tokens reversed.
func Variants(key string) []string {
	tokens := strings.Fields(key)
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return []string{key, strings.ReplaceAll(key, ".", ""), strings.Join(tokens, " ")}
}
