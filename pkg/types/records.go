// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and configuration shared by the
// candidate-dataset packages.
package types

import (
	"strconv"
	"time"
)

// Row is implemented by every output record so the table writers can stay
// generic. Columns must not depend on the receiver's field values.
type Row interface {
	Columns() []string
	Values() []string
}

// timestampLayout matches the ISO-8601 form downstream loaders expect.
const timestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t in UTC with microsecond precision.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// CorpusRecord is one row of the denormalized bibliographic feed. Every field
// is kept as raw text; coercion happens in the scans.
type CorpusRecord struct {
	ID            string `json:"id" yaml:"id"`
	Author        string `json:"author" yaml:"author"`
	PubDate       string `json:"pub_date" yaml:"pub_date"`
	CitationCount string `json:"citation_count" yaml:"citation_count"`
	Title         string `json:"title" yaml:"title"`
	Abstract      string `json:"abstract" yaml:"abstract"`
	Venue         string `json:"venue" yaml:"venue"`
	DOI           string `json:"doi" yaml:"doi"`
}

// PublicationRecord is one (publication, matched author) pair.
type PublicationRecord struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Title       string    `json:"title"`
	Venue       string    `json:"venue"`
	Year        *int      `json:"year"`
	Citations   int       `json:"citations"`
	DOI         string    `json:"doi"`
	Abstract    string    `json:"abstract"`
	TopicID     string    `json:"topic_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PublicationRecord) Columns() []string {
	return []string{"id", "candidate_id", "title", "venue", "year", "citations", "doi", "abstract", "topic_id", "created_at", "updated_at"}
}

func (p PublicationRecord) Values() []string {
	year := ""
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}
	return []string{
		p.ID, p.CandidateID, p.Title, p.Venue, year,
		strconv.Itoa(p.Citations), p.DOI, p.Abstract, p.TopicID,
		FormatTimestamp(p.CreatedAt), FormatTimestamp(p.UpdatedAt),
	}
}

// CandidateRecord is one distinct author in the eligible population.
type CandidateRecord struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	UniversityID      string    `json:"university_id"`
	GraduationYear    int       `json:"graduation_year"`
	TotalCitations    int       `json:"total_citations"`
	HIndex            int       `json:"h_index"`
	PublicationCount  int       `json:"publication_count"`
	RankingScore      int       `json:"ranking_score"`
	ResearchInterests string    `json:"research_interests"`
	ProfileImageURL   string    `json:"profile_image_url"`
	LinkedInURL       string    `json:"linkedin_url"`
	GoogleScholarURL  string    `json:"google_scholar_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (CandidateRecord) Columns() []string {
	return []string{
		"id", "name", "university_id", "graduation_year", "total_citations", "h_index",
		"publication_count", "ranking_score", "research_interests",
		"profile_image_url", "linkedin_url", "google_scholar_url", "created_at", "updated_at",
	}
}

func (c CandidateRecord) Values() []string {
	return []string{
		c.ID, c.Name, c.UniversityID, strconv.Itoa(c.GraduationYear),
		strconv.Itoa(c.TotalCitations), strconv.Itoa(c.HIndex),
		strconv.Itoa(c.PublicationCount), strconv.Itoa(c.RankingScore), c.ResearchInterests,
		c.ProfileImageURL, c.LinkedInURL, c.GoogleScholarURL,
		FormatTimestamp(c.CreatedAt), FormatTimestamp(c.UpdatedAt),
	}
}

// UniversityRecord is one distinct resolved affiliation.
type UniversityRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Ranking   *int      `json:"ranking"`
	LogoURL   string    `json:"logo_url"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UniversityRecord) Columns() []string {
	return []string{"id", "name", "country", "ranking", "logo_url", "website", "created_at", "updated_at"}
}

func (u UniversityRecord) Values() []string {
	ranking := ""
	if u.Ranking != nil {
		ranking = strconv.Itoa(*u.Ranking)
	}
	return []string{
		u.ID, u.Name, u.Country, ranking, u.LogoURL, u.Website,
		FormatTimestamp(u.CreatedAt), FormatTimestamp(u.UpdatedAt),
	}
}

// TopicRecord is one topic label that appears in some candidate's top three.
type TopicRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TopicRecord) Columns() []string {
	return []string{"id", "name", "description", "created_at", "updated_at"}
}

func (t TopicRecord) Values() []string {
	return []string{t.ID, t.Name, t.Description, FormatTimestamp(t.CreatedAt), FormatTimestamp(t.UpdatedAt)}
}

// CandidateTopicLink joins a candidate to one of its top topics.
type CandidateTopicLink struct {
	CandidateID string    `json:"candidate_id"`
	TopicID     string    `json:"topic_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CandidateTopicLink) Columns() []string {
	return []string{"candidate_id", "topic_id", "created_at"}
}

func (l CandidateTopicLink) Values() []string {
	return []string{l.CandidateID, l.TopicID, FormatTimestamp(l.CreatedAt)}
}

// AcademicMetricRecord aggregates a university's candidates for one period.
type AcademicMetricRecord struct {
	ID                string    `json:"id"`
	UniversityID      string    `json:"university_id"`
	Year              int       `json:"year"`
	PublicationsCount int       `json:"publications_count"`
	TotalCitations    int       `json:"total_citations"`
	HIndexAvg         float64   `json:"h_index_avg"`
	ConferencePapers  int       `json:"conference_papers"`
	JournalPapers     int       `json:"journal_papers"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (AcademicMetricRecord) Columns() []string {
	return []string{
		"id", "university_id", "year", "publications_count", "total_citations",
		"h_index_avg", "conference_papers", "journal_papers", "created_at", "updated_at",
	}
}

func (m AcademicMetricRecord) Values() []string {
	return []string{
		m.ID, m.UniversityID, strconv.Itoa(m.Year), strconv.Itoa(m.PublicationsCount),
		strconv.Itoa(m.TotalCitations), strconv.FormatFloat(m.HIndexAvg, 'f', -1, 64),
		strconv.Itoa(m.ConferencePapers), strconv.Itoa(m.JournalPapers),
		FormatTimestamp(m.CreatedAt), FormatTimestamp(m.UpdatedAt),
	}
}

// RunSummary is written as RUN_SUMMARY.json at the end of a build.
type RunSummary struct {
	Candidates      int    `json:"candidates"`
	Universities    int    `json:"universities"`
	Topics          int    `json:"topics"`
	Publications    int    `json:"publications"`
	CandidateTopics int    `json:"candidate_topics"`
	AcademicMetrics int    `json:"academic_metrics"`
	EligibleAuthors int    `json:"eligible_authors"`
	RecordsScanned  int    `json:"records_scanned"`
	RecordsMatched  int    `json:"records_matched"`
	PeriodYear      int    `json:"period_year"`
	GeneratedAt     string `json:"generated_at"`
}
