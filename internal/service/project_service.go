package service

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/db"
)

// URLInput is one URL submitted with a new project.
type URLInput struct {
	Address string     `json:"address"`
	Role    db.URLRole `json:"role"`
}

// CreateProject creates a project and its tracked URLs in one transaction.
// URLs without a role become the target when listed first and competitors otherwise.
func CreateProject(dbConn *gorm.DB, userID uint, name, topic string, urls []URLInput) (*db.Project, error) {
	name, topic = strings.TrimSpace(name), strings.TrimSpace(topic)
	if userID == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "user ID cannot be zero")
	}
	if name == "" || topic == "" {
		return nil, errors.Wrap(ErrInvalidInput, "name and target topic are required")
	}
	if len(urls) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "at least one URL is required")
	}

	tracked, err := buildTrackedURLs(urls)
	if err != nil {
		return nil, err
	}

	user, err := GetUserByID(dbConn, userID)
	if err != nil {
		return nil, err
	}
	if err := billing.CheckURLs(user.Plan, len(tracked)); err != nil {
		return nil, err
	}

	project := db.Project{
		UserID:      userID,
		Name:        name,
		TargetTopic: topic,
		URLs:        tracked,
	}

	err = dbConn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Project{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if err := billing.CheckProjects(user.Plan, count); err != nil {
			return err
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "create project")
	}
	return &project, nil
}

func buildTrackedURLs(urls []URLInput) ([]db.TrackedURL, error) {
	tracked := make([]db.TrackedURL, 0, len(urls))
	hasTarget := false

	for i, in := range urls {
		address := strings.TrimSpace(in.Address)
		u, err := url.ParseRequestURI(address)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, errors.Wrapf(ErrInvalidInput, "invalid URL %q", in.Address)
		}

		role := in.Role
		switch role {
		case "":
			role = db.RoleCompetitor
			if i == 0 {
				role = db.RoleTarget
			}
		case db.RoleTarget, db.RoleCompetitor:
		default:
			return nil, errors.Wrapf(ErrInvalidInput, "invalid role %q", in.Role)
		}
		hasTarget = hasTarget || role == db.RoleTarget

		tracked = append(tracked, db.TrackedURL{
			Address: address,
			Role:    role,
			Domain:  crawler.Domain(address),
		})
	}

	if !hasTarget {
		return nil, errors.Wrap(ErrInvalidInput, "at least one target URL is required")
	}
	return tracked, nil
}

// ListProjects returns the user's projects, newest first
func ListProjects(dbConn *gorm.DB, userID uint) ([]db.Project, error) {
	var projects []db.Project
	err := dbConn.Where("user_id = ?", userID).
		Preload("URLs", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return projects, nil
}

// GetProject retrieves a project with its URLs for a specific user
func GetProject(dbConn *gorm.DB, userID, projectID uint) (*db.Project, error) {
	var project db.Project
	err := dbConn.Where("id = ? AND user_id = ?", projectID, userID).
		Preload("URLs", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// DeleteProject removes a project and everything derived from it.
func DeleteProject(dbConn *gorm.DB, userID, projectID uint) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var project db.Project
		if err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
			return translate(err)
		}

		urlIDs := tx.Model(&db.TrackedURL{}).Select("id").Where("project_id = ?", projectID)
		steps := []struct {
			model any
			query string
			arg   any
		}{
			{&db.ScrapedContent{}, "tracked_url_id IN (?)", urlIDs},
			{&db.Recommendation{}, "project_id = ?", projectID},
			{&db.AnalysisResult{}, "project_id = ?", projectID},
			{&db.AIAnswer{}, "project_id = ?", projectID},
			{&db.TrackedURL{}, "project_id = ?", projectID},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.arg).Delete(s.model).Error; err != nil {
				return errors.Wrap(err, "delete project data")
			}
		}
		return tx.Delete(&project).Error
	})
}

// ListProjectIDs returns every project with its owner, for scheduled jobs.
func ListProjectIDs(dbConn *gorm.DB) ([]db.Project, error) {
	var projects []db.Project
	if err := dbConn.Select("id", "user_id").Order("id ASC").Find(&projects).Error; err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return projects, nil
}
