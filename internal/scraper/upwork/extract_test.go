package upwork

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tileFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	tile := doc.Find("[data-test=\"job-tile\"], [data-test=\"JobTile\"], article").First()
	require.Positive(t, tile.Length(), "fixture must contain a tile")
	return tile
}

const currentMarkupTile = `
<article data-test="job-tile">
  <h4><a data-test="job-title-link" href="/jobs/~0123abc456">Build a Go scraper</a></h4>
  <div data-test="job-type">Hourly: <strong>$35.00 /hr</strong></div>
  <div data-test="contractor-tier">Intermediate</div>
  <div data-test="posted-on">2 hours ago</div>
  <div data-test="job-description-text">We need a resilient scraping pipeline.</div>
  <span data-test="payment-verified">Payment verified</span>
  <span data-test="proposals">5-10 proposals</span>
  <span data-test="client-country">United States</span>
  <div>
    <span data-test="attr-item">Go</span>
    <span data-test="attr-item">Web Scraping</span>
    <span data-test="attr-item">PostgreSQL</span>
  </div>
  <span data-test="client-name">Acme Corp</span>
  <span data-test="client-rating"><span class="air3-rating-value-text">4.9</span></span>
  <span data-test="client-spendings">$10K+ spent</span>
</article>`

const legacyMarkupTile = `
<div data-test="JobTile">
  <span data-test="JobTileTitle"><a href="https://www.upwork.com/jobs/~0fed999">Legacy layout job</a></span>
  <div data-test="JobTileDescription">Old rendering of the tile.</div>
  <div data-test="JobTileBudget">Fixed: $2,000</div>
  <div data-test="JobTileProposals">15 proposals</div>
</div>`

func TestExtractJobCurrentMarkup(t *testing.T) {
	rec := ExtractJob(tileFromHTML(t, currentMarkupTile))

	assert.Equal(t, "~0123abc456", rec.JobID)
	assert.Equal(t, "Build a Go scraper", rec.Title)
	assert.Equal(t, "https://www.upwork.com/jobs/~0123abc456", rec.JobURL)
	assert.Equal(t, "We need a resilient scraping pipeline.", rec.Description)
	assert.Equal(t, "hourly", rec.JobType)
	assert.Equal(t, "Intermediate", rec.ExperienceLevel)
	assert.Equal(t, "2 hours ago", rec.Posted)
	assert.Equal(t, "United States", rec.Country)
	assert.True(t, rec.PaymentVerified)
	assert.Equal(t, 8, rec.Proposals)
	assert.Equal(t, []string{"Go", "Web Scraping", "PostgreSQL"}, rec.Skills)
	assert.Equal(t, "Acme Corp", rec.Client.Name)
	assert.Equal(t, "4.9", rec.Client.Rating)
	assert.Equal(t, "$10K+ spent", rec.Client.TotalSpent)
	if assert.NotNil(t, rec.HourlyRate) {
		assert.InDelta(t, 35.0, *rec.HourlyRate, 0.001)
	}
}

// fallback selectors pick up the older rendering
func TestExtractJobLegacyMarkup(t *testing.T) {
	rec := ExtractJob(tileFromHTML(t, legacyMarkupTile))

	assert.Equal(t, "~0fed999", rec.JobID)
	assert.Equal(t, "Legacy layout job", rec.Title)
	assert.Equal(t, "Old rendering of the tile.", rec.Description)
	if assert.NotNil(t, rec.Budget) {
		assert.Equal(t, 2000, *rec.Budget)
	}
	assert.Equal(t, 15, rec.Proposals)
	assert.False(t, rec.PaymentVerified)
}

// a fragment with none of the expected markup degrades to empty values
// without raising
func TestExtractJobEmptyFragment(t *testing.T) {
	rec := ExtractJob(tileFromHTML(t, `<article><p>nothing here</p></article>`))

	assert.Equal(t, "", rec.JobID)
	assert.Equal(t, "", rec.Title)
	assert.Equal(t, "", rec.JobURL)
	assert.Equal(t, "", rec.Description)
	assert.Nil(t, rec.Budget)
	assert.Nil(t, rec.HourlyRate)
	assert.Equal(t, 0, rec.Proposals)
	assert.False(t, rec.PaymentVerified)
	assert.Empty(t, rec.Skills)
	assert.Equal(t, "", rec.Client.Name)
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"", ""},
		{"https://www.upwork.com/jobs/~01", "https://www.upwork.com/jobs/~01"},
		{"/jobs/~01", "https://www.upwork.com/jobs/~01"},
		{"//www.upwork.com/jobs/~01", "https://www.upwork.com/jobs/~01"},
		{"jobs/~01", "https://www.upwork.com/jobs/~01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsoluteURL(tt.href), "href %q", tt.href)
	}
}

func TestExtractDetail(t *testing.T) {
	html := `
<html><body>
  <div data-test="Description">Full description with much more detail than the tile snippet.</div>
  <div data-test="Features"><span data-test="contractor-tier">Expert</span></div>
  <ul data-test="job-features"><li><strong>$4,000</strong></li></ul>
  <div><span data-test="Skill">Go</span><span data-test="Skill">Docker</span></div>
  <div data-test="AboutClientVisitor">
    <span data-test="client-name">Beta LLC</span>
    <span class="air3-rating-value-text">4.5</span>
    <span data-test="total-spent">$50K+</span>
  </div>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	rec := ExtractDetail(doc, "https://www.upwork.com/jobs/~0123abc456")

	assert.Equal(t, "~0123abc456", rec.JobID)
	assert.Equal(t, "Full description with much more detail than the tile snippet.", rec.Description)
	assert.Equal(t, "Expert", rec.ExperienceLevel)
	assert.Equal(t, []string{"Go", "Docker"}, rec.Skills)
	assert.Equal(t, "Beta LLC", rec.Client.Name)
	assert.Equal(t, "4.5", rec.Client.Rating)
	assert.Equal(t, "$50K+", rec.Client.TotalSpent)
	if assert.NotNil(t, rec.Budget) {
		assert.Equal(t, 4000, *rec.Budget)
	}
	assert.Nil(t, rec.HourlyRate)
}
