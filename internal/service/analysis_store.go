package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/db"
)

// SaveAnalysis inserts an analysis and its recommendations atomically.
func SaveAnalysis(dbConn *gorm.DB, result *db.AnalysisResult, recs []db.Recommendation) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return errors.Wrap(err, "save analysis")
		}
		if len(recs) == 0 {
			return nil
		}
		for i := range recs {
			recs[i].AnalysisResultID = result.ID
			recs[i].ProjectID = result.ProjectID
		}
		if err := tx.Create(&recs).Error; err != nil {
			return errors.Wrap(err, "save recommendations")
		}
		return nil
	})
}

// GetAnalysis retrieves an analysis of a project owned by userID.
func GetAnalysis(dbConn *gorm.DB, userID, projectID, analysisID uint) (*db.AnalysisResult, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	var result db.AnalysisResult
	if err := dbConn.Where("id = ? AND project_id = ?", analysisID, projectID).First(&result).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

// ListAnalyses returns a project's analysis history, newest first.
func ListAnalyses(dbConn *gorm.DB, userID, projectID uint) ([]db.AnalysisResult, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	var results []db.AnalysisResult
	if err := dbConn.Where("project_id = ?", projectID).Order("created_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, errors.Wrap(err, "list analyses")
	}
	return results, nil
}
