package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/db"
)

// GetAnswer retrieves an answer of a project owned by userID.
func GetAnswer(dbConn *gorm.DB, userID, projectID, answerID uint) (*db.AIAnswer, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	var ans db.AIAnswer
	if err := dbConn.Where("id = ? AND project_id = ?", answerID, projectID).First(&ans).Error; err != nil {
		return nil, translate(err)
	}
	return &ans, nil
}

// LatestAnswer retrieves the most recent answer of a project owned by userID.
func LatestAnswer(dbConn *gorm.DB, userID, projectID uint) (*db.AIAnswer, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	var ans db.AIAnswer
	if err := dbConn.Where("project_id = ?", projectID).Order("created_at DESC, id DESC").First(&ans).Error; err != nil {
		return nil, translate(err)
	}
	return &ans, nil
}

// ListAnswers returns a project's answers, newest first.
func ListAnswers(dbConn *gorm.DB, userID, projectID uint) ([]db.AIAnswer, error) {
	if _, err := GetProject(dbConn, userID, projectID); err != nil {
		return nil, err
	}

	var answers []db.AIAnswer
	if err := dbConn.Where("project_id = ?", projectID).Order("created_at DESC, id DESC").Find(&answers).Error; err != nil {
		return nil, errors.Wrap(err, "list answers")
	}
	return answers, nil
}
