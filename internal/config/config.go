package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the service.
type Config struct {
	Addr            string
	DatabaseURL     string
	SeedPath        string
	SiteURL         string
	StripeSecretKey string
	TelegramToken   string
	TelegramChatID  int64
	DigestTime      string // HH:MM; empty disables the daily digest
}

// Load reads configuration from environment variables with sane defaults.
// The Stripe secret is deliberately not required here: its absence only
// disables the checkout feature, which reports a configuration error when
// invoked.
func Load() (Config, error) {
	cfg := Config{
		Addr:            strings.TrimSpace(os.Getenv("ADDR")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SeedPath:        strings.TrimSpace(os.Getenv("SEED_PATH")),
		SiteURL:         strings.TrimSpace(os.Getenv("SITE_URL")),
		StripeSecretKey: strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DigestTime:      strings.TrimSpace(os.Getenv("DIGEST_TIME")),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "wedding_planner.db"
	}
	if cfg.SeedPath == "" {
		cfg.SeedPath = "data/wedding_seed.json"
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:8080"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID %q is not a number", raw)
		}
		cfg.TelegramChatID = id
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}
