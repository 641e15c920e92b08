// Shared types for the scraping pipeline
// Every component speaks JobRecord

package scraper

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ClientInfo holds the client fields shown alongside a job.
// All strings, empty when the markup doesn't expose them.
type ClientInfo struct {
	Name       string `json:"name"`
	Rating     string `json:"rating"`
	TotalSpent string `json:"totalSpent"`
}

// JobRecord is the canonical unit of output. A record is uniquely identified
// by JobID within one run; free-text fields default to "" and numeric fields
// to nil/0 when the markup doesn't yield them.
type JobRecord struct {
	JobID           string     `json:"jobId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	JobURL          string     `json:"jobUrl"`
	Budget          *int       `json:"budget"`
	HourlyRate      *float64   `json:"hourlyRate"`
	JobType         string     `json:"jobType"`
	ExperienceLevel string     `json:"experienceLevel"`
	Posted          string     `json:"posted"`
	Country         string     `json:"country"`
	Proposals       int        `json:"proposals"`
	PaymentVerified bool       `json:"paymentVerified"`
	Skills          []string   `json:"skills"`
	Client          ClientInfo `json:"clientInfo"`

	// provenance, assigned by the pipeline rather than the extractor
	Source    string    `json:"source,omitempty"`
	ScrapedAt time.Time `json:"scrapedAt,omitzero"`
}

// UserData rides along with a pagination request. The controller increments
// Page across hops and leaves everything else untouched.
type UserData struct {
	Search int               `json:"search"`
	Page   int               `json:"page"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Request describes one page fetch.
type Request struct {
	URL      string
	Headers  map[string]string
	UserData UserData
}

// FailedRequest reports a page that was abandoned after retries.
type FailedRequest struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Fetcher renders one page and returns its parsed content.
// Implementations own navigation, auth cookies and politeness delays.
type Fetcher interface {
	FetchPage(ctx context.Context, req *Request) (*goquery.Document, error)
}
