package service

import (
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/recommend"
)

// RecommendationGroups buckets recommendations by priority.
type RecommendationGroups struct {
	High   []db.Recommendation `json:"high" yaml:"high"`
	Medium []db.Recommendation `json:"medium" yaml:"medium"`
	Low    []db.Recommendation `json:"low" yaml:"low"`
}

// Total is the number of recommendations across all buckets.
func (g RecommendationGroups) Total() int {
	return len(g.High) + len(g.Medium) + len(g.Low)
}

// ListRecommendations returns a project's recommendations sorted high to low,
// newest first within a priority. A non-zero analysisID restricts the list to
// that analysis.
func ListRecommendations(dbConn *gorm.DB, userID, projectID, analysisID uint) ([]db.Recommendation, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	query := dbConn.Where("project_id = ?", projectID)
	if analysisID != 0 {
		query = query.Where("analysis_result_id = ?", analysisID)
	}

	var recs []db.Recommendation
	if err := query.Order("created_at DESC, analysis_result_id DESC, id ASC").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "list recommendations")
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs, nil
}

// GroupByPriority splits recs into priority buckets, keeping their order.
func GroupByPriority(recs []db.Recommendation) RecommendationGroups {
	groups := RecommendationGroups{
		High:   []db.Recommendation{},
		Medium: []db.Recommendation{},
		Low:    []db.Recommendation{},
	}
	for _, r := range recs {
		switch r.Priority {
		case recommend.PriorityHigh:
			groups.High = append(groups.High, r)
		case recommend.PriorityMedium:
			groups.Medium = append(groups.Medium, r)
		default:
			groups.Low = append(groups.Low, r)
		}
	}
	return groups
}
