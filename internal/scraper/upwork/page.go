package upwork

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"go-upwork-automation/internal/scraper"
)

// ErrNoListings means none of the container selectors matched; the page is
// either a challenge interstitial or a markup variant we don't know yet.
// Callers treat it as a retryable fetch failure.
var ErrNoListings = errors.New("no job listings found on page")

var nextPageSelectors = []string{
	`[data-test="pagination"] a[rel="next"]`,
	`a[data-test="next-page"]`,
	`nav[aria-label="Pagination"] a[aria-label="Next Page"]`,
	`li.pagination-next a`,
	`a.next`,
}

// PageResult is the outcome of processing one listing page.
type PageResult struct {
	Jobs        []scraper.JobRecord
	NextPageURL string // absolute, "" when no next control was found
	CurrentPage int    // from the fetched URL's page query param, default 1
	Continue    bool   // CurrentPage < the per-search page ceiling
}

// ProcessListingPage extracts every job tile on a fetched page, locates the
// next-page control and decides whether pagination should continue. The first
// container selector with at least one match wins for the whole page; mixed
// markup variants on a single page are not supported. Enqueuing the next
// fetch is the caller's job.
func ProcessListingPage(doc *goquery.Document, pageURL string, maxPages int) (*PageResult, error) {
	tiles := findTiles(doc)
	if tiles == nil {
		return nil, ErrNoListings
	}

	res := &PageResult{CurrentPage: PageNumber(pageURL)}
	tiles.Each(func(_ int, tile *goquery.Selection) {
		res.Jobs = append(res.Jobs, ExtractJob(tile))
	})
	res.NextPageURL = resolveNextURL(pageURL, firstAttr(doc.Selection, nextPageSelectors, "href"))
	res.Continue = res.CurrentPage < maxPages
	return res, nil
}

// resolveNextURL resolves a next-page href against the page it was found on,
// so bare query strings like "?page=2" keep the search path. Unparseable
// inputs fall back to origin-based resolution.
func resolveNextURL(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return AbsoluteURL(href)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return AbsoluteURL(href)
	}
	return base.ResolveReference(ref).String()
}

func findTiles(doc *goquery.Document) *goquery.Selection {
	for _, sel := range jobTileSelectors {
		if tiles := doc.Find(sel); tiles.Length() > 0 {
			return tiles
		}
	}
	return nil
}

// PageNumber reads the page query parameter from a listing URL, defaulting
// to 1 when absent or unparseable.
func PageNumber(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 1
	}
	if n, err := strconv.Atoi(u.Query().Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}
