package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/structure"
)

// SaveScrape appends the scrape outcome of one URL.
func SaveScrape(dbConn *gorm.DB, out crawler.Outcome) (*db.ScrapedContent, error) {
	row := db.ScrapedContent{
		TrackedURLID: out.URLID,
		H1s:          nonNil(out.Structure.H1s),
		H2s:          nonNil(out.Structure.H2s),
		H3s:          nonNil(out.Structure.H3s),
		WordCount:    out.Structure.WordCount,
		Hierarchy:    out.Structure.Sections,
		RawContent:   out.RawContent,
		Status:       out.Status,
		Error:        out.Error,
	}
	if row.Hierarchy == nil {
		row.Hierarchy = []structure.Section{}
	}

	if err := dbConn.Create(&row).Error; err != nil {
		return nil, errors.Wrapf(err, "save scrape of url %d", out.URLID)
	}
	return &row, nil
}

// LatestSuccessfulScrapes returns the newest successful scrape per URL id.
// Rows are append-only, so the highest id is the newest.
func LatestSuccessfulScrapes(dbConn *gorm.DB, urlIDs []uint) (map[uint]db.ScrapedContent, error) {
	latest := make(map[uint]db.ScrapedContent, len(urlIDs))
	if len(urlIDs) == 0 {
		return latest, nil
	}

	newest := dbConn.Model(&db.ScrapedContent{}).
		Select("MAX(id)").
		Where("tracked_url_id IN ? AND status = ?", urlIDs, crawler.StatusSuccess).
		Group("tracked_url_id")

	var rows []db.ScrapedContent
	if err := dbConn.Where("id IN (?)", newest).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load scraped content")
	}

	for _, row := range rows {
		latest[row.TrackedURLID] = row
	}
	return latest, nil
}

// ListScrapes returns up to limit of the newest scrapes of a project's URLs,
// or all of them when limit is not positive. Raw content is not loaded.
func ListScrapes(dbConn *gorm.DB, userID, projectID uint, limit int) ([]db.ScrapedContent, error) {
	project, err := GetProject(dbConn, userID, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(project.URLs))
	for _, u := range project.URLs {
		ids = append(ids, u.ID)
	}

	var rows []db.ScrapedContent
	if len(ids) == 0 {
		return rows, nil
	}
	if limit <= 0 {
		limit = -1
	}
	err = dbConn.Omit("raw_content").
		Where("tracked_url_id IN ?", ids).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list scraped content")
	}
	return rows, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
