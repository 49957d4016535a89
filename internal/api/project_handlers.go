package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/service"
)

// CreateProjectRequest represents the project creation payload
type CreateProjectRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	TargetTopic string             `json:"target_topic" binding:"required,max=500"`
	URLs        []service.URLInput `json:"urls" binding:"required,min=1"`
}

// CreateProjectHandler creates a project with its target and competitor URLs
func CreateProjectHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		var req CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project request"})
			return
		}

		project, err := service.CreateProject(dbConn, userID, req.Name, req.TargetTopic, req.URLs)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("project created", zap.Uint("project_id", project.ID), zap.Int("urls", len(project.URLs)))
		c.JSON(http.StatusCreated, project)
	}
}

// ListProjectsHandler lists the caller's projects
func ListProjectsHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		projects, err := service.ListProjects(dbConn, userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": projects, "total": len(projects)})
	}
}

// GetProjectHandler returns one project with its URLs
func GetProjectHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		project, err := service.GetProject(dbConn, userID, projectID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// DeleteProjectHandler deletes a project and everything derived from it
func DeleteProjectHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		if err := service.DeleteProject(dbConn, userID, projectID); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("project deleted", zap.Uint("project_id", projectID))
		c.Status(http.StatusNoContent)
	}
}
