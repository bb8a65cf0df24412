// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/candidate-dataset/internal/affiliation"
	"github.com/pdiddy/candidate-dataset/internal/identity"
	"github.com/pdiddy/candidate-dataset/internal/score"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// TopTopicCount is the number of research interests kept per candidate.
const TopTopicCount = 3

// interestSeparator joins a candidate's top topics in research_interests.
const interestSeparator = "; "

// Dataset holds every table produced by the finalizer.
type Dataset struct {
	Candidates      []types.CandidateRecord
	Universities    []types.UniversityRecord
	Topics          []types.TopicRecord
	CandidateTopics []types.CandidateTopicLink
	AcademicMetrics []types.AcademicMetricRecord
}

// Finalizer turns accumulators into the relational tables.
type Finalizer struct {
	resolver   *affiliation.Resolver
	scorer     *score.Scorer
	region     func(university string) string
	periodYear int
	now        time.Time
}

// NewFinalizer returns a Finalizer. region maps a university name to its
// country; a nil region yields "unknown" for everyone.
func NewFinalizer(resolver *affiliation.Resolver, scorer *score.Scorer, region func(string) string, periodYear int, now time.Time) *Finalizer {
	if region == nil {
		region = func(string) string { return "unknown" }
	}
	return &Finalizer{
		resolver:   resolver,
		scorer:     scorer,
		region:     region,
		periodYear: periodYear,
		now:        now,
	}
}

// registry is an insertion-ordered set of names keyed by identity.
type registry struct {
	ids   map[string]string
	order []string
}

func newRegistry() *registry {
	return &registry{ids: make(map[string]string)}
}

func (r *registry) add(name, id string) {
	if _, ok := r.ids[name]; ok {
		return
	}
	r.ids[name] = id
	r.order = append(r.order, name)
}

type universityTotals struct {
	candidates   int
	publications int
	citations    int
	hIndexSum    int
}

// Finalize builds the dataset. Candidates appear in accumulator order;
// universities and topics in first-registration order.
func (f *Finalizer) Finalize(acc *Accumulators) Dataset {
	var ds Dataset
	universities := newRegistry()
	topics := newRegistry()
	totals := make(map[string]*universityTotals)

	for _, a := range acc.All() {
		total := score.Sum(a.Citations)
		h := score.HIndex(a.Citations)
		count := len(a.Citations)

		uni := f.resolver.Resolve(a.AuthorKey, a.Coauthors)
		uniID := identity.University(uni)
		universities.add(uni, uniID)

		graduation := f.periodYear
		if a.FirstYear != nil {
			graduation = *a.FirstYear + 5
		}

		top := TopTopics(a.Topics, TopTopicCount)
		for _, label := range top {
			topics.add(label, identity.Topic(label))
		}

		ds.Candidates = append(ds.Candidates, types.CandidateRecord{
			ID:                a.CandidateID,
			Name:              a.AuthorKey,
			UniversityID:      uniID,
			GraduationYear:    graduation,
			TotalCitations:    total,
			HIndex:            h,
			PublicationCount:  count,
			RankingScore:      f.scorer.RankingScore(total, h, count),
			ResearchInterests: strings.Join(top, interestSeparator),
			CreatedAt:         f.now,
			UpdatedAt:         f.now,
		})
		for _, label := range top {
			ds.CandidateTopics = append(ds.CandidateTopics, types.CandidateTopicLink{
				CandidateID: a.CandidateID,
				TopicID:     topics.ids[label],
				CreatedAt:   f.now,
			})
		}

		t, ok := totals[uniID]
		if !ok {
			t = &universityTotals{}
			totals[uniID] = t
		}
		t.candidates++
		t.publications += count
		t.citations += total
		t.hIndexSum += h
	}

	// The sentinel must exist even when every candidate resolved.
	universities.add(affiliation.Unknown, identity.University(affiliation.Unknown))

	for _, name := range universities.order {
		id := universities.ids[name]
		ds.Universities = append(ds.Universities, types.UniversityRecord{
			ID:        id,
			Name:      name,
			Country:   f.region(name),
			CreatedAt: f.now,
			UpdatedAt: f.now,
		})

		t, ok := totals[id]
		if !ok {
			continue
		}
		ds.AcademicMetrics = append(ds.AcademicMetrics, types.AcademicMetricRecord{
			ID:                identity.AcademicMetric(id, f.periodYear),
			UniversityID:      id,
			Year:              f.periodYear,
			PublicationsCount: t.publications,
			TotalCitations:    t.citations,
			HIndexAvg:         float64(t.hIndexSum) / float64(t.candidates),
			CreatedAt:         f.now,
			UpdatedAt:         f.now,
		})
	}

	for _, label := range topics.order {
		ds.Topics = append(ds.Topics, types.TopicRecord{
			ID:        topics.ids[label],
			Name:      label,
			CreatedAt: f.now,
			UpdatedAt: f.now,
		})
	}
	return ds
}

// TopTopics returns up to n distinct labels ordered by frequency, ties broken
// by first appearance.
func TopTopics(labels []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
