package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-upwork-automation/internal/browser"
	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/crawl"
	"go-upwork-automation/internal/database"
	"go-upwork-automation/internal/dedup"
	"go-upwork-automation/internal/filter"
	"go-upwork-automation/internal/scraper"
	"go-upwork-automation/internal/store"
	"go-upwork-automation/internal/telegram"
)

func main() {
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Seeds: %d, pages/search: %d, concurrency: %d",
		len(cfg.Searches), cfg.MaxPagesPerSearch, cfg.MaxConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	log.Println("🚀 Starting Upwork job scraper...")

	pwManager, err := browser.NewManager(cfg.Headless)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	cookies := loadAuthCookies(cfg)

	fetcher, err := browser.NewPageFetcher(pwManager, cookies)
	if err != nil {
		log.Fatalf("❌ Failed to create page fetcher: %v", err)
	}
	defer fetcher.Close()
	log.Println("✅ Browser initialized successfully!")

	jobStore := store.New()
	controller := crawl.NewController(fetcher, jobStore, crawl.Config{
		MaxPagesPerSearch: cfg.MaxPagesPerSearch,
		MaxConcurrency:    cfg.MaxConcurrency,
		Retry: crawl.Policy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
		ActionDelay:  time.Duration(cfg.ActionDelayMs) * time.Millisecond,
		FetchDetails: cfg.FetchDetails,
	})

	result, err := controller.Run(ctx, cfg.Searches)
	if err != nil {
		log.Fatalf("❌ Crawl failed before any fetch: %v", err)
	}
	log.Printf("\n📦 Total jobs collected: %d (%d requests abandoned)", len(result.Jobs), len(result.Failed))
	for _, f := range result.Failed {
		log.Printf("  ❌ %s: %s", f.URL, f.Error)
	}

	// Source is stamped per seed by the controller; only the timestamp is
	// added here
	now := time.Now()
	for i := range result.Jobs {
		result.Jobs[i].ScrapedAt = now
	}

	criteria := filter.Criteria{
		JobType:         cfg.Filters.JobType,
		ExperienceLevel: cfg.Filters.ExperienceLevel,
		BudgetMin:       cfg.Filters.BudgetMin,
		BudgetMax:       cfg.Filters.BudgetMax,
		Keywords:        cfg.Filters.Keywords,
		ExcludeKeywords: cfg.Filters.ExcludeKeywords,
	}
	var kept []scraper.JobRecord
	for _, job := range result.Jobs {
		if filter.ShouldIncludeJob(job, criteria) {
			kept = append(kept, job)
		}
	}
	log.Printf("🔍 Filtered: %d/%d jobs", len(kept), len(result.Jobs))

	notifyNewJobs(cfg, kept)
	saveJobs(kept, result.Failed)
	persistJobs(ctx, cfg, kept)
	postWebhook(cfg, kept)

	log.Println("🏁 Execution finished.")
}

// loadAuthCookies combines JSON cookie exports with the raw session blob.
// Missing cookies are not fatal: public search pages render without them.
func loadAuthCookies(cfg *config.Config) []playwright.OptionalCookie {
	var all []playwright.OptionalCookie

	cookieFile := filepath.Join(cfg.CookiesPath, "cookies-upwork.json")
	cookies, err := browser.LoadCookies(cookieFile)
	if err != nil {
		log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", cookieFile, err)
	} else {
		log.Printf("🍪 Loaded %d cookies", len(cookies))
		all = append(all, cookies...)
	}

	if cfg.SessionCookie != "" {
		parsed := browser.ParseCookieHeader(cfg.SessionCookie, ".upwork.com")
		log.Printf("🍪 Parsed %d cookies from session blob", len(parsed))
		all = append(all, parsed...)
	}
	return all
}

func notifyNewJobs(cfg *config.Config, jobs []scraper.JobRecord) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		log.Println("ℹ️ Telegram not configured, skipping notifications.")
		return
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram bot: %v", err)
		return
	}

	jobCache := dedup.NewJobCache(cfg.CachePath)
	var unseen []scraper.JobRecord
	for _, job := range jobs {
		if !jobCache.IsSeen(job.JobID) {
			unseen = append(unseen, job)
		}
	}
	log.Printf("🔍 Cross-run dedup: %d total -> %d unseen jobs", len(jobs), len(unseen))

	sent := 0
	var sentIDs []string
	for _, job := range unseen {
		if err := bot.SendJob(job); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
			continue
		}
		sent++
		sentIDs = append(sentIDs, job.JobID)
		// 1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	jobCache.MarkSeen(sentIDs)

	if len(unseen) > 0 {
		status := fmt.Sprintf("Found %d new jobs, sent %d.", len(unseen), sent)
		if err := bot.SendStatus(status); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}
}

func saveJobs(jobs []scraper.JobRecord, failed []scraper.FailedRequest) {
	if len(jobs) == 0 && len(failed) == 0 {
		log.Println("ℹ️ Nothing to save.")
		return
	}

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	payload := struct {
		Jobs   []scraper.JobRecord     `json:"jobs"`
		Failed []scraper.FailedRequest `json:"failedRequests,omitempty"`
	}{Jobs: jobs, Failed: failed}

	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)

	data, err := json.MarshalIndent(payload, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal jobs to JSON: %v", err)
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write logs file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}

func persistJobs(ctx context.Context, cfg *config.Config, jobs []scraper.JobRecord) {
	if cfg.DatabaseURL == "" || len(jobs) == 0 {
		return
	}
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("⚠️ Database unavailable: %v", err)
		return
	}
	defer repo.Close()

	saved, err := repo.SaveJobs(ctx, jobs)
	if err != nil {
		log.Printf("⚠️ Some jobs failed to persist: %v", err)
	}
	log.Printf("💾 Persisted %d/%d jobs", saved, len(jobs))
}

// postWebhook ships the run's records to the configured consumer (the n8n
// workflow's webhook trigger).
func postWebhook(cfg *config.Config, jobs []scraper.JobRecord) {
	if cfg.WebhookURL == "" || len(jobs) == 0 {
		return
	}

	payload := struct {
		Source    string              `json:"source"`
		Timestamp time.Time           `json:"timestamp"`
		Jobs      []scraper.JobRecord `json:"jobs"`
	}{Source: "upwork-scraper", Timestamp: time.Now(), Jobs: jobs}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ Failed to marshal webhook payload: %v", err)
		return
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(cfg.WebhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Printf("⚠️ Webhook delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️ Webhook returned status %d", resp.StatusCode)
		return
	}
	log.Printf("📤 Sent %d jobs to webhook", len(jobs))
}
