// Package config reads scraper settings from the environment.
// Every setting has a default, so an empty environment reproduces the stock run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	LogLevel       string
	BaseURL        string
	SearchText     string
	SearchPeriod   int      // days
	Areas          []string // hh.ru area IDs
	MaxPages       int
	FilterKeywords []string // lower-cased
	RequestTimeout time.Duration
	OutputFile     string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:       "info",
		BaseURL:        "https://spb.hh.ru",
		SearchText:     "python",
		SearchPeriod:   1,
		Areas:          []string{"1", "2"},
		MaxPages:       2,
		FilterKeywords: []string{"django", "flask"},
		RequestTimeout: 30 * time.Second,
		OutputFile:     "vacancies.json",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HH_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("HH_SEARCH_TEXT"); v != "" {
		cfg.SearchText = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		cfg.OutputFile = v
	}

	if s := os.Getenv("HH_SEARCH_PERIOD_DAYS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("HH_SEARCH_PERIOD_DAYS must be a positive integer, got %q", s)
		}
		cfg.SearchPeriod = v
	}

	if s := os.Getenv("HH_MAX_PAGES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("HH_MAX_PAGES must be a positive integer, got %q", s)
		}
		cfg.MaxPages = v
	}

	if s := os.Getenv("HH_REQUEST_TIMEOUT"); s != "" {
		v, err := time.ParseDuration(s)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("HH_REQUEST_TIMEOUT must be a positive duration, got %q", s)
		}
		cfg.RequestTimeout = v
	}

	if s := os.Getenv("HH_AREAS"); s != "" {
		areas := splitList(s)
		if len(areas) == 0 {
			return nil, fmt.Errorf("HH_AREAS must list at least one area, got %q", s)
		}
		cfg.Areas = areas
	}

	if s := os.Getenv("HH_FILTER_KEYWORDS"); s != "" {
		keywords := splitList(s)
		if len(keywords) == 0 {
			return nil, fmt.Errorf("HH_FILTER_KEYWORDS must list at least one keyword, got %q", s)
		}
		for i, k := range keywords {
			keywords[i] = strings.ToLower(k)
		}
		cfg.FilterKeywords = keywords
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
