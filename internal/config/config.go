// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Filters struct {
	JobType         string   `yaml:"job_type"`
	ExperienceLevel string   `yaml:"experience_level"`
	BudgetMin       int      `yaml:"budget_min"`
	BudgetMax       int      `yaml:"budget_max"`
	Keywords        []string `yaml:"keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

type Config struct {
	// seed search URLs, one pagination chain each
	Searches []string `yaml:"searches"`

	// crawl behavior
	MaxPagesPerSearch int  `yaml:"max_pages_per_search"`
	MaxConcurrency    int  `yaml:"max_concurrency"`
	MaxRetries        int  `yaml:"max_retries"`
	RetryDelayMs      int  `yaml:"retry_delay_ms"`
	ActionDelayMs     int  `yaml:"action_delay_ms"`
	FetchDetails      bool `yaml:"fetch_details"`
	Headless          bool `yaml:"headless"`

	Filters Filters `yaml:"filters"`

	// paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`

	// delivery, all optional
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	WebhookURL     string `yaml:"webhook_url" env:"WEBHOOK_URL"`
	DatabaseURL    string `yaml:"-" env:"DATABASE_URL"`

	// workflow server
	N8NBaseURL string `yaml:"n8n_base_url" env:"N8N_BASE_URL"`
	N8NAPIKey  string `yaml:"-" env:"N8N_API_KEY"`

	// raw "a=b; c=d" auth blob, passed through to the browser untouched
	SessionCookie string `yaml:"-" env:"UPWORK_SESSION_COOKIE"`
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{Headless: true}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	// override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("N8N_BASE_URL"); v != "" {
		cfg.N8NBaseURL = v
	}
	if v := os.Getenv("N8N_API_KEY"); v != "" {
		cfg.N8NAPIKey = v
	}
	if v := os.Getenv("UPWORK_SESSION_COOKIE"); v != "" {
		cfg.SessionCookie = v
	}

	// defaults
	if cfg.MaxPagesPerSearch <= 0 {
		cfg.MaxPagesPerSearch = 3
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 2
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayMs <= 0 {
		cfg.RetryDelayMs = 2000
	}
	if cfg.ActionDelayMs <= 0 {
		cfg.ActionDelayMs = 1500
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	// validate required fields before any fetch starts
	if len(cfg.Searches) == 0 {
		log.Fatal("at least one seed search URL is required")
	}

	return cfg
}
