package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/geospy/geospy-api/internal/crawler"
)

const (
	ScraperProviderService = "service"
	ScraperProviderDirect  = "direct"
)

type ScraperConfig struct {
	Provider        string        `json:"provider" yaml:"provider"`
	BaseURL         string        `json:"baseUrl" yaml:"base_url"`
	APIKey          string        `json:"-" yaml:"api_key"`
	Workers         int           `json:"workers" yaml:"workers"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
	MaxContentChars int           `json:"maxContentChars" yaml:"max_content_chars"`
}

// Validate does not require the API key: a missing key is reported per scrape batch.
func (s *ScraperConfig) Validate() []error {
	var errs = make([]error, 0)
	switch s.Provider {
	case ScraperProviderService:
		if s.BaseURL == "" {
			errs = append(errs, errors.New("scraper.base_url is required for the service provider"))
		}
	case ScraperProviderDirect:
	default:
		errs = append(errs, errors.Errorf("scraper.provider must be %q or %q, got %q", ScraperProviderService, ScraperProviderDirect, s.Provider))
	}
	if s.Workers <= 0 {
		errs = append(errs, errors.New("scraper.workers must be positive"))
	}
	return errs
}

func NewDefaultScraperConfig() *ScraperConfig {
	d := crawler.DefaultConfig()
	return &ScraperConfig{
		Provider:        ScraperProviderService,
		BaseURL:         "https://api.firecrawl.dev",
		Workers:         d.Workers,
		Timeout:         d.Timeout,
		MaxContentChars: d.MaxContentChars,
	}
}

// Orchestrator converts the section into the orchestrator configuration.
func (s *ScraperConfig) Orchestrator() *crawler.Config {
	return &crawler.Config{
		Workers:         s.Workers,
		Timeout:         s.Timeout,
		MaxContentChars: s.MaxContentChars,
	}
}
