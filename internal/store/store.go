// In-memory deduplicating job store, scoped to one run.
// Records move through two lifecycle stages: listing (minimal, from a search
// page) and enriched (after a detail-page merge). At most one record exists
// per job id at any time.

package store

import (
	"sync"

	"go-upwork-automation/internal/scraper"
)

type JobStore struct {
	mu      sync.Mutex
	records map[string]*scraper.JobRecord
	order   []string // job ids in first-observation order
}

func New() *JobStore {
	return &JobStore{
		records: make(map[string]*scraper.JobRecord),
	}
}

// UpsertListing registers a record observed on a listing page. The first
// listing observation wins: listing data never overwrites an existing record
// of either stage. Records without a job id cannot be merged or addressed
// later and are rejected. Returns true when the record was inserted.
func (s *JobStore) UpsertListing(rec scraper.JobRecord) bool {
	if rec.JobID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.records[rec.JobID]; seen {
		return false
	}
	r := rec
	s.records[rec.JobID] = &r
	s.order = append(s.order, rec.JobID)
	return true
}

// UpsertDetail merges detail-page fields over the stored record, field by
// field with detail taking precedence. An unknown job id inserts a
// detail-only record.
func (s *JobStore) UpsertDetail(jobID string, detail scraper.JobRecord) {
	if jobID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, seen := s.records[jobID]
	if !seen {
		d := detail
		d.JobID = jobID
		s.records[jobID] = &d
		s.order = append(s.order, jobID)
		return
	}
	mergeDetail(existing, detail)
}

// Get returns a copy of the record for jobID, if present.
func (s *JobStore) Get(jobID string) (scraper.JobRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[jobID]; ok {
		return *rec, true
	}
	return scraper.JobRecord{}, false
}

// Values returns the finalized record set in first-observation order.
func (s *JobStore) Values() []scraper.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scraper.JobRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.records[id])
	}
	return out
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// mergeDetail overlays populated detail fields onto dst. Empty detail fields
// leave the listing values intact.
func mergeDetail(dst *scraper.JobRecord, detail scraper.JobRecord) {
	if detail.Title != "" {
		dst.Title = detail.Title
	}
	if detail.Description != "" {
		dst.Description = detail.Description
	}
	if detail.JobURL != "" {
		dst.JobURL = detail.JobURL
	}
	if detail.Budget != nil {
		dst.Budget = detail.Budget
	}
	if detail.HourlyRate != nil {
		dst.HourlyRate = detail.HourlyRate
	}
	if detail.JobType != "" {
		dst.JobType = detail.JobType
	}
	if detail.ExperienceLevel != "" {
		dst.ExperienceLevel = detail.ExperienceLevel
	}
	if detail.Posted != "" {
		dst.Posted = detail.Posted
	}
	if detail.Country != "" {
		dst.Country = detail.Country
	}
	if detail.Proposals != 0 {
		dst.Proposals = detail.Proposals
	}
	if detail.PaymentVerified {
		dst.PaymentVerified = true
	}
	if len(detail.Skills) > 0 {
		dst.Skills = detail.Skills
	}
	if detail.Client.Name != "" {
		dst.Client.Name = detail.Client.Name
	}
	if detail.Client.Rating != "" {
		dst.Client.Rating = detail.Client.Rating
	}
	if detail.Client.TotalSpent != "" {
		dst.Client.TotalSpent = detail.Client.TotalSpent
	}
	if detail.Source != "" {
		dst.Source = detail.Source
	}
	if !detail.ScrapedAt.IsZero() {
		dst.ScrapedAt = detail.ScrapedAt
	}
}
