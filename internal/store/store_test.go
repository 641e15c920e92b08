package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-upwork-automation/internal/scraper"
)

func intPtr(v int) *int { return &v }

func TestUpsertListingFirstWins(t *testing.T) {
	s := New()

	ok := s.UpsertListing(scraper.JobRecord{JobID: "~01", Title: "Original title", Country: "United States"})
	assert.True(t, ok)

	// a duplicate sighting on a later page must not clobber the first
	ok = s.UpsertListing(scraper.JobRecord{JobID: "~01", Title: "Duplicate sighting"})
	assert.False(t, ok)

	rec, found := s.Get("~01")
	require.True(t, found)
	assert.Equal(t, "Original title", rec.Title)
	assert.Equal(t, "United States", rec.Country)
	assert.Equal(t, 1, s.Len())
}

func TestUpsertListingRejectsEmptyJobID(t *testing.T) {
	s := New()
	assert.False(t, s.UpsertListing(scraper.JobRecord{Title: "No id, no home"}))
	assert.Equal(t, 0, s.Len())
}

func TestUpsertDetailMerge(t *testing.T) {
	s := New()
	require.True(t, s.UpsertListing(scraper.JobRecord{
		JobID:     "~01",
		Title:     "Listing title",
		JobURL:    "https://www.upwork.com/jobs/~01",
		Posted:    "2 hours ago",
		Country:   "Germany",
		Proposals: 5,
	}))

	s.UpsertDetail("~01", scraper.JobRecord{
		Description:     "Much longer detail description",
		Budget:          intPtr(4000),
		ExperienceLevel: "Expert",
		Skills:          []string{"Go", "Docker"},
		Proposals:       12,
	})

	rec, found := s.Get("~01")
	require.True(t, found)
	// detail fields overwrite
	assert.Equal(t, "Much longer detail description", rec.Description)
	assert.Equal(t, "Expert", rec.ExperienceLevel)
	assert.Equal(t, []string{"Go", "Docker"}, rec.Skills)
	assert.Equal(t, 12, rec.Proposals)
	if assert.NotNil(t, rec.Budget) {
		assert.Equal(t, 4000, *rec.Budget)
	}
	// listing fields the detail left empty survive
	assert.Equal(t, "Listing title", rec.Title)
	assert.Equal(t, "2 hours ago", rec.Posted)
	assert.Equal(t, "Germany", rec.Country)
	assert.Equal(t, 1, s.Len())
}

// empty detail fields must not wipe listing data
func TestUpsertDetailEmptyFieldsKeepListing(t *testing.T) {
	s := New()
	require.True(t, s.UpsertListing(scraper.JobRecord{
		JobID:           "~01",
		Title:           "Listing title",
		Description:     "Listing snippet",
		Budget:          intPtr(500),
		PaymentVerified: true,
	}))

	s.UpsertDetail("~01", scraper.JobRecord{})

	rec, _ := s.Get("~01")
	assert.Equal(t, "Listing title", rec.Title)
	assert.Equal(t, "Listing snippet", rec.Description)
	assert.True(t, rec.PaymentVerified)
	if assert.NotNil(t, rec.Budget) {
		assert.Equal(t, 500, *rec.Budget)
	}
}

func TestUpsertDetailUnknownIDInserts(t *testing.T) {
	s := New()
	s.UpsertDetail("~99", scraper.JobRecord{Description: "Detail-only record"})

	rec, found := s.Get("~99")
	require.True(t, found)
	assert.Equal(t, "~99", rec.JobID)
	assert.Equal(t, "Detail-only record", rec.Description)
}

func TestValuesInsertionOrder(t *testing.T) {
	s := New()
	for _, id := range []string{"~0c", "~0a", "~0b"} {
		require.True(t, s.UpsertListing(scraper.JobRecord{JobID: id}))
	}
	// detail merges and duplicate listings must not reorder
	s.UpsertDetail("~0a", scraper.JobRecord{Title: "enriched"})
	s.UpsertListing(scraper.JobRecord{JobID: "~0c"})

	vals := s.Values()
	require.Len(t, vals, 3)
	assert.Equal(t, "~0c", vals[0].JobID)
	assert.Equal(t, "~0a", vals[1].JobID)
	assert.Equal(t, "~0b", vals[2].JobID)
}
