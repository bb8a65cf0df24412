// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity derives content-addressed identifiers for dataset
// entities. The same kind and parts always produce the same ID, so re-runs
// on unchanged input can be upserted by primary key.
package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity kinds used as the first semantic part of every ID.
const (
	KindCandidate      = "candidate"
	KindPublication    = "pub"
	KindTopic          = "topic"
	KindUniversity     = "university"
	KindAcademicMetric = "academic_metrics"
)

const separator = "||"

// Key joins kind and parts into the semantic key that is hashed. Parts are
// rendered with fmt's default formatting.
func Key(kind string, parts ...any) string {
	fields := make([]string, 0, len(parts)+1)
	fields = append(fields, kind)
	for _, p := range parts {
		fields = append(fields, fmt.Sprint(p))
	}
	return strings.Join(fields, separator)
}

// ID returns the version-5 UUID of Key(kind, parts...) in the URL namespace.
func ID(kind string, parts ...any) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(Key(kind, parts...))).String()
}

// Candidate returns the ID of the author with the given normalized name.
func Candidate(authorKey string) string { return ID(KindCandidate, authorKey) }

// Publication returns the ID of one (source record, matched author) row.
func Publication(recordID, authorKey string) string {
	return ID(KindPublication, recordID, authorKey)
}

// Topic returns the ID of a topic label.
func Topic(label string) string { return ID(KindTopic, label) }

// University returns the ID of a resolved affiliation name.
func University(name string) string { return ID(KindUniversity, name) }

// AcademicMetric returns the ID of a university's metrics for a period.
func AcademicMetric(universityID string, year int) string {
	return ID(KindAcademicMetric, universityID, year)
}
