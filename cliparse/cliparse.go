// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKey     string

	// Judging
	TargetPhrase string
	WinnerCount  int
	WinnerLabel  string
	GoodsCount   int

	// Embedding provider
	EmbedProvider    string
	EmbedURL         string
	EmbedModel       string
	EmbedAPIKey      string
	EmbedDimension   int
	EmbedTimeout     time.Duration
	EmbedConcurrency int
}

// ParseFlags reads flags, falls back to environment variables, then
// applies defaults and validates required settings.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("talk-box", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Operator key (prefer env)")
	fs.StringVar(&cfg.TargetPhrase, "target", "", "Secret target phrase for judging (prefer env)")
	fs.StringVar(&cfg.EmbedAPIKey, "embed-api-key", "", "Embedding provider API key (prefer env)")

	fs.IntVar(&cfg.WinnerCount, "k", -1, "Number of winners")
	fs.StringVar(&cfg.WinnerLabel, "winner-label", "", "Label stored on winning submissions")
	fs.IntVar(&cfg.GoodsCount, "goods", -1, "Number of prizes available (0 = unlimited)")

	fs.StringVar(&cfg.EmbedProvider, "embed-provider", "", "Embedding provider (ollama, openai, genai)")
	fs.StringVar(&cfg.EmbedURL, "embed-url", "", "Embedding provider base URL")
	fs.StringVar(&cfg.EmbedModel, "embed-model", "", "Embedding model name")
	fs.IntVar(&cfg.EmbedDimension, "embed-dim", 0, "Embedding vector dimension")
	fs.DurationVar(&cfg.EmbedTimeout, "embed-timeout", 0, "Timeout per embedding request")
	fs.IntVar(&cfg.EmbedConcurrency, "embed-concurrency", 0, "Maximum concurrent embedding requests")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	var err error
	if cfg.Port, err = intFromEnv(cfg.Port, 0, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = stringFromEnv(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	cfg.AdminKey = stringFromEnv(cfg.AdminKey, "ADMIN_KEY", "")
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}
	cfg.TargetPhrase = stringFromEnv(cfg.TargetPhrase, "TARGET_PHRASE", "")
	if cfg.TargetPhrase == "" {
		return Config{}, errors.New("TARGET_PHRASE required")
	}
	cfg.EmbedAPIKey = stringFromEnv(cfg.EmbedAPIKey, "EMBED_API_KEY", "")

	if cfg.WinnerCount, err = intFromEnv(cfg.WinnerCount, -1, "WINNER_COUNT", 3); err != nil {
		return Config{}, err
	}
	if cfg.WinnerCount < 0 {
		return Config{}, errors.New("winner count must not be negative")
	}
	cfg.WinnerLabel = stringFromEnv(cfg.WinnerLabel, "WINNER_LABEL", "Winner")
	if cfg.GoodsCount, err = intFromEnv(cfg.GoodsCount, -1, "GOODS_COUNT", 0); err != nil {
		return Config{}, err
	}
	if cfg.GoodsCount < 0 {
		return Config{}, errors.New("goods count must not be negative")
	}

	cfg.EmbedProvider = stringFromEnv(cfg.EmbedProvider, "EMBED_PROVIDER", "ollama")
	cfg.EmbedURL = stringFromEnv(cfg.EmbedURL, "EMBED_URL", "")
	cfg.EmbedModel = stringFromEnv(cfg.EmbedModel, "EMBED_MODEL", "")
	if cfg.EmbedDimension, err = intFromEnv(cfg.EmbedDimension, 0, "EMBED_DIMENSION", 1024); err != nil {
		return Config{}, err
	}
	if cfg.EmbedDimension <= 0 {
		return Config{}, errors.New("embedding dimension must be positive")
	}
	if cfg.EmbedConcurrency, err = intFromEnv(cfg.EmbedConcurrency, 0, "EMBED_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.EmbedTimeout == 0 {
		if v := os.Getenv("EMBED_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid EMBED_TIMEOUT env variable")
			}
			cfg.EmbedTimeout = d
		} else {
			cfg.EmbedTimeout = 10 * time.Second
		}
	}

	return cfg, nil
}

func stringFromEnv(current, key, def string) string {
	if current != "" {
		return current
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intFromEnv keeps current unless it still holds the flag's unset value
func intFromEnv(current, unset int, key string, def int) (int, error) {
	if current != unset {
		return current, nil
	}
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
