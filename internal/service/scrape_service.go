package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/db"
)

// ScrapeOutcome reports one URL of a scrape batch.
type ScrapeOutcome struct {
	URLID            uint           `json:"url_id"`
	URL              string         `json:"url"`
	Role             db.URLRole     `json:"role"`
	Status           crawler.Status `json:"status"`
	WordCount        int            `json:"word_count"`
	HeadingCount     int            `json:"heading_count"`
	Error            string         `json:"error,omitempty"`
	ScrapedContentID uint           `json:"scraped_content_id"`
}

// ScrapeSummary reports a whole scrape batch.
type ScrapeSummary struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Outcomes  []ScrapeOutcome `json:"outcomes"`
}

// ScrapeService scrapes every URL of a project and stores the outcomes.
type ScrapeService struct {
	db           *gorm.DB
	orchestrator *crawler.Orchestrator
	logger       *zap.Logger
}

func NewScrapeService(dbConn *gorm.DB, orchestrator *crawler.Orchestrator, logger *zap.Logger) *ScrapeService {
	return &ScrapeService{db: dbConn, orchestrator: orchestrator, logger: logger}
}

// ScrapeProject fetches all URLs of the project. Failed fetches are stored as
// failed rows; only preconditions and write failures return an error.
func (s *ScrapeService) ScrapeProject(ctx context.Context, userID, projectID uint) (*ScrapeSummary, error) {
	project, err := GetProject(s.db, userID, projectID)
	if err != nil {
		return nil, err
	}

	targets := make([]crawler.Target, 0, len(project.URLs))
	roles := make(map[uint]db.URLRole, len(project.URLs))
	for _, u := range project.URLs {
		targets = append(targets, crawler.Target{ID: u.ID, Address: u.Address})
		roles[u.ID] = u.Role
	}

	start := time.Now()
	outcomes, err := s.orchestrator.Run(ctx, targets)
	if err != nil {
		return nil, err
	}

	summary := &ScrapeSummary{Total: len(outcomes), Outcomes: make([]ScrapeOutcome, 0, len(outcomes))}
	for _, out := range outcomes {
		row, err := SaveScrape(s.db, out)
		if err != nil {
			return nil, err
		}

		if out.Status == crawler.StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Outcomes = append(summary.Outcomes, ScrapeOutcome{
			URLID:            out.URLID,
			URL:              out.Address,
			Role:             roles[out.URLID],
			Status:           out.Status,
			WordCount:        out.Structure.WordCount,
			HeadingCount:     out.Structure.HeadingCount(),
			Error:            out.Error,
			ScrapedContentID: row.ID,
		})
	}

	s.logger.Info("project scraped",
		zap.Uint("project_id", projectID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(start)))

	return summary, nil
}

// ScrapeAll rescrapes every project as its owner. Per-project failures are
// logged and do not stop the run.
func (s *ScrapeService) ScrapeAll(ctx context.Context) error {
	projects, err := ListProjectIDs(s.db)
	if err != nil {
		return err
	}

	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "scheduled scrape interrupted")
		}
		if _, err := s.ScrapeProject(ctx, p.UserID, p.ID); err != nil {
			s.logger.Warn("scheduled scrape failed", zap.Uint("project_id", p.ID), zap.Error(err))
		}
	}
	return nil
}
