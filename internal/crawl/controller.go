// Pagination controller: fetch → process → store → decide-to-continue,
// per seed search, bounded by a page ceiling and a concurrency limit.

package crawl

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go-upwork-automation/internal/scraper"
	"go-upwork-automation/internal/scraper/upwork"
	"go-upwork-automation/internal/store"
)

// ErrNoSearches is the pre-flight failure for an empty seed list.
var ErrNoSearches = errors.New("no seed searches provided")

type Config struct {
	MaxPagesPerSearch int
	MaxConcurrency    int
	Retry             Policy
	ActionDelay       time.Duration // politeness pause between page hops
	FetchDetails      bool          // run the detail-enrichment phase
	Headers           map[string]string
}

// Result is what one full run produces: the finalized record set in
// first-observation order plus per-request failure reports. Partial success
// is the steady state; failures never abort sibling seeds.
type Result struct {
	Jobs   []scraper.JobRecord
	Failed []scraper.FailedRequest
}

type Controller struct {
	fetcher scraper.Fetcher
	store   *store.JobStore
	cfg     Config

	mu     sync.Mutex
	failed []scraper.FailedRequest
}

func NewController(fetcher scraper.Fetcher, st *store.JobStore, cfg Config) *Controller {
	if cfg.MaxPagesPerSearch < 1 {
		cfg.MaxPagesPerSearch = 1
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return &Controller{fetcher: fetcher, store: st, cfg: cfg}
}

// Run crawls every seed search URL, paginating each until its ceiling, no
// next-page control or an abandoned fetch, then optionally enriches stored
// records from their detail pages. Only pre-flight validation is fatal.
func (c *Controller) Run(ctx context.Context, searches []string) (*Result, error) {
	if len(searches) == 0 {
		return nil, ErrNoSearches
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrency)
	for i, seed := range searches {
		req := &scraper.Request{
			URL:      seed,
			Headers:  c.cfg.Headers,
			UserData: scraper.UserData{Search: i, Page: 1},
		}
		g.Go(func() error {
			c.crawlSearch(gctx, req, seed)
			return nil
		})
	}
	// workers never return errors; Wait is only a join point
	_ = g.Wait()

	if c.cfg.FetchDetails && ctx.Err() == nil {
		c.enrichDetails(ctx)
	}

	c.mu.Lock()
	failed := append([]scraper.FailedRequest(nil), c.failed...)
	c.mu.Unlock()
	return &Result{Jobs: c.store.Values(), Failed: failed}, nil
}

// crawlSearch walks one seed's pagination chain sequentially. Every record
// is stamped with the seed that produced it before it enters the store. A
// page that exhausts its retries ends the chain: later pages cannot be
// reached without its next-page link.
func (c *Controller) crawlSearch(ctx context.Context, req *scraper.Request, seed string) {
	for {
		if ctx.Err() != nil {
			return
		}
		page, err := c.fetchAndProcess(ctx, req)
		if err != nil {
			c.reportFailure(req.URL, err)
			return
		}

		inserted := 0
		for _, job := range page.Jobs {
			job.Source = seed
			if c.store.UpsertListing(job) {
				inserted++
			}
		}
		log.Printf("  📦 page %d of search %d: %d jobs (%d new)",
			page.CurrentPage, req.UserData.Search, len(page.Jobs), inserted)

		if page.NextPageURL == "" || !page.Continue {
			return
		}

		next := *req
		next.URL = page.NextPageURL
		next.UserData.Page = req.UserData.Page + 1
		req = &next

		if !c.pause(ctx) {
			return
		}
	}
}

// fetchAndProcess is all-or-nothing per page: records surface only after the
// fetch and the full listing-page processing both succeed, so a timed-out
// fetch never leaks partial records.
func (c *Controller) fetchAndProcess(ctx context.Context, req *scraper.Request) (*upwork.PageResult, error) {
	var result *upwork.PageResult
	err := c.cfg.Retry.Do(ctx, func() error {
		doc, err := c.fetcher.FetchPage(ctx, req)
		if err != nil {
			return err
		}
		page, err := upwork.ProcessListingPage(doc, req.URL, c.cfg.MaxPagesPerSearch)
		if err != nil {
			return err
		}
		result = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// enrichDetails fetches each stored record's job page and merges the detail
// fields over the listing data. Failures are reported per URL and the
// listing-stage record stays as-is.
func (c *Controller) enrichDetails(ctx context.Context) {
	records := c.store.Values()
	log.Printf("🔎 Enriching %d records from detail pages...", len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrency)
	for _, rec := range records {
		if rec.JobURL == "" {
			continue
		}
		g.Go(func() error {
			req := &scraper.Request{URL: rec.JobURL, Headers: c.cfg.Headers}
			var detail scraper.JobRecord
			err := c.cfg.Retry.Do(gctx, func() error {
				doc, err := c.fetcher.FetchPage(gctx, req)
				if err != nil {
					return err
				}
				detail = upwork.ExtractDetail(doc, rec.JobURL)
				return nil
			})
			if err != nil {
				c.reportFailure(rec.JobURL, err)
				return nil
			}
			c.store.UpsertDetail(rec.JobID, detail)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Controller) pause(ctx context.Context) bool {
	if c.cfg.ActionDelay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.cfg.ActionDelay):
		return true
	}
}

func (c *Controller) reportFailure(url string, err error) {
	log.Printf("  ❌ Abandoned %s: %v", url, err)
	c.mu.Lock()
	c.failed = append(c.failed, scraper.FailedRequest{URL: url, Error: err.Error()})
	c.mu.Unlock()
}
