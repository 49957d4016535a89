// Package crawler fetches tracked pages and turns them into heading outlines.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/metrics"
	"github.com/geospy/geospy-api/internal/structure"
)

// Status is the lifecycle state of one fetch.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

var (
	// ErrNoURLs is returned when a batch contains no URLs.
	ErrNoURLs = errors.New("no urls to scrape")
	// ErrMissingCredential is returned when the scraping service has no API key.
	ErrMissingCredential = errors.New("scraping service credential is not configured")
	// ErrFetchTimeout marks a fetch cancelled by its per-URL deadline.
	ErrFetchTimeout = errors.New("fetch timed out")
)

// Fetcher returns the markdown rendering of a page.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// validator is implemented by fetchers with batch preconditions.
type validator interface {
	Validate() error
}

// Config holds orchestrator configuration
type Config struct {
	Workers         int           `yaml:"workers"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxContentChars int           `yaml:"max_content_chars"`
}

// DefaultConfig returns default orchestrator configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:         3,
		Timeout:         30 * time.Second,
		MaxContentChars: 50000,
	}
}

// Target is one URL of a batch.
type Target struct {
	ID      uint
	Address string
}

// Outcome is the terminal result for one Target.
type Outcome struct {
	URLID      uint                `json:"urlId"`
	Address    string              `json:"url"`
	Status     Status              `json:"status"`
	Structure  structure.Structure `json:"structure"`
	RawContent string              `json:"-"`
	Error      string              `json:"error,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// Orchestrator fans fetches out over a bounded worker pool.
type Orchestrator struct {
	fetcher  Fetcher
	workers  int
	timeout  time.Duration
	maxChars int
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator around fetcher.
func NewOrchestrator(fetcher Fetcher, config *Config, m *metrics.Metrics, logger *zap.Logger) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Orchestrator{
		fetcher:  fetcher,
		workers:  workers,
		timeout:  config.Timeout,
		maxChars: config.MaxContentChars,
		metrics:  m,
		logger:   logger,
	}
}

// Run fetches every target and returns one outcome per target, in input order.
// Individual failures are reported in the outcomes; only batch preconditions
// produce an error.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) ([]Outcome, error) {
	if len(targets) == 0 {
		return nil, ErrNoURLs
	}
	if v, ok := o.fetcher.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	type indexed struct {
		index  int
		target Target
	}

	queue := make(chan indexed, len(targets))
	for i, t := range targets {
		queue <- indexed{index: i, target: t}
	}
	close(queue)

	outcomes := make([]Outcome, len(targets))
	workers := min(o.workers, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range queue {
				outcomes[job.index] = o.processURL(ctx, job.target)
				o.logger.Debug("url processed",
					zap.Int("worker", id),
					zap.String("url", job.target.Address),
					zap.String("status", string(outcomes[job.index].Status)))
			}
		}(i)
	}
	wg.Wait()

	return outcomes, nil
}

// processURL fetches a single target under its own deadline.
func (o *Orchestrator) processURL(parent context.Context, t Target) Outcome {
	outcome := Outcome{URLID: t.ID, Address: t.Address, Status: StatusPending}
	start := time.Now()

	finish := func(err error) Outcome {
		outcome.Duration = time.Since(start)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Error = err.Error()
			o.logger.Warn("scrape failed", zap.String("url", t.Address), zap.Error(err))
		} else {
			outcome.Status = StatusSuccess
		}
		o.metrics.ObserveScrape(Domain(t.Address), string(outcome.Status), outcome.Duration.Seconds())
		return outcome
	}

	if err := parent.Err(); err != nil {
		return finish(err)
	}

	ctx := parent
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, o.timeout)
		defer cancel()
	}

	done := o.metrics.ScrapeStarted()
	markdown, err := o.fetcher.Fetch(ctx, t.Address)
	done()

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
			err = fmt.Errorf("%w after %s", ErrFetchTimeout, o.timeout)
		}
		return finish(err)
	}

	outcome.Structure = structure.Extract(markdown)
	outcome.RawContent = ai.Truncate(markdown, o.maxChars)
	return finish(nil)
}

// Domain returns the host of address without a leading "www.".
func Domain(address string) string {
	u, err := url.Parse(address)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
