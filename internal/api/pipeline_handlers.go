package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/service"
)

const (
	defaultScrapeLimit = 50
	maxScrapeLimit     = 500
)

// GenerateAnswersRequest represents the answer generation payload
type GenerateAnswersRequest struct {
	Queries []string `json:"queries" binding:"required,min=1"`
}

// AnalyzeRequest selects the answer to analyse. Zero means the latest.
type AnalyzeRequest struct {
	AnswerID uint `json:"answer_id"`
}

// ScrapeProjectHandler scrapes every URL of a project
func ScrapeProjectHandler(scrapes *service.ScrapeService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		summary, err := scrapes.ScrapeProject(c.Request.Context(), userID, projectID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// GenerateAnswersHandler produces reference answers for a list of queries
func GenerateAnswersHandler(answers *service.AnswerService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var req GenerateAnswersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer request"})
			return
		}

		batch, err := answers.GenerateAnswers(c.Request.Context(), userID, projectID, req.Queries)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

// ListAnswersHandler lists a project's answers
func ListAnswersHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		answers, err := service.ListAnswers(dbConn, userID, projectID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": answers, "total": len(answers)})
	}
}

// AnalyzeHandler runs a coverage analysis and returns it with its recommendations
func AnalyzeHandler(analyses *service.AnalysisService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var req AnalyzeRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis request"})
				return
			}
		}

		outcome, err := analyses.Analyze(c.Request.Context(), userID, projectID, req.AnswerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, outcome)
	}
}

// ListAnalysesHandler lists a project's analyses, newest first
func ListAnalysesHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		results, err := service.ListAnalyses(dbConn, userID, projectID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results, "total": len(results)})
	}
}

// GetAnalysisHandler returns one stored analysis with its recommendations
func GetAnalysisHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}
		analysisID, ok := uintParam(c, "analysisId")
		if !ok {
			return
		}

		row, err := service.GetAnalysis(dbConn, userID, projectID, analysisID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		recs, err := service.ListRecommendations(dbConn, userID, projectID, analysisID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, service.AnalysisOutcome{Analysis: *row, Recommendations: recs})
	}
}

// ListScrapesHandler returns a project's most recent scrapes, newest first.
// ?limit= caps the page size.
func ListScrapesHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		limit := defaultScrapeLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxScrapeLimit {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = n
		}

		rows, err := service.ListScrapes(dbConn, userID, projectID, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows, "total": len(rows)})
	}
}

// ListRecommendationsHandler returns a project's recommendations grouped by
// priority, optionally restricted with ?analysis_id=
func ListRecommendationsHandler(dbConn *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		projectID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var analysisID uint
		if raw := c.Query("analysis_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis_id"})
				return
			}
			analysisID = uint(id)
		}

		recs, err := service.ListRecommendations(dbConn, userID, projectID, analysisID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		groups := service.GroupByPriority(recs)
		c.JSON(http.StatusOK, gin.H{
			"project_id":      projectID,
			"total":           groups.Total(),
			"recommendations": groups,
		})
	}
}
