package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"go-upwork-automation/internal/scraper"
)

// ErrBotChallenge means the response was a challenge interstitial rather
// than content. The session behind it has been retired; the request is
// eligible for retry on a fresh identity.
var ErrBotChallenge = errors.New("bot challenge detected")

var challengeRe = regexp.MustCompile(`(?i)access denied|forbidden|verify you|captcha|just a moment|attention required`)

// IsBotChallenge matches the page content against known challenge-page
// signatures (Cloudflare interstitials, access-denied walls, captchas).
func IsBotChallenge(html string) bool {
	return challengeRe.MatchString(html)
}

// PageFetcher implements scraper.Fetcher on a real browser. Each fetch runs
// in its own page so concurrent fetches never share render state; the
// browser context (and its cookies) is shared and rotated when a challenge
// burns it.
type PageFetcher struct {
	manager *Manager
	cookies []playwright.OptionalCookie

	mu  sync.Mutex
	ctx playwright.BrowserContext

	DelayMinMs int // politeness delay after navigation
	DelayMaxMs int
	TimeoutMs  float64
}

func NewPageFetcher(manager *Manager, cookies []playwright.OptionalCookie) (*PageFetcher, error) {
	ctx, err := manager.NewContext(cookies)
	if err != nil {
		return nil, err
	}
	return &PageFetcher{
		manager:    manager,
		cookies:    cookies,
		ctx:        ctx,
		DelayMinMs: 1000,
		DelayMaxMs: 2000,
		TimeoutMs:  30000,
	}, nil
}

// FetchPage navigates to the request URL, lets the SPA render, and returns
// the parsed document. A challenge page retires the current browser context
// and surfaces as ErrBotChallenge.
func (f *PageFetcher) FetchPage(ctx context.Context, req *scraper.Request) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.newPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if len(req.Headers) > 0 {
		page.SetExtraHTTPHeaders(req.Headers)
	}

	if _, err := page.Goto(req.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(f.TimeoutMs),
	}); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	// politeness + let lazy tiles render
	RandomDelay(f.DelayMinMs, f.DelayMaxMs)
	MouseJiggle(page)
	SmoothScroll(page)

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read content of %s: %w", req.URL, err)
	}

	if IsBotChallenge(html) {
		log.Printf("  🛡️ Bot challenge on %s, retiring session...", req.URL)
		f.rotate()
		return nil, ErrBotChallenge
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Close releases the fetcher's browser context. The Manager itself is owned
// by the caller.
func (f *PageFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctx != nil {
		f.ctx.Close()
		f.ctx = nil
	}
}

func (f *PageFetcher) newPage() (playwright.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctx == nil {
		ctx, err := f.manager.NewContext(f.cookies)
		if err != nil {
			return nil, err
		}
		f.ctx = ctx
	}
	return f.ctx.NewPage()
}

// rotate drops the burned context; the next fetch gets a fresh identity with
// the same cookies.
func (f *PageFetcher) rotate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctx != nil {
		f.ctx.Close()
		f.ctx = nil
	}
}
