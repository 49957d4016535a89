package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/config"
	"github.com/geospy/geospy-api/internal/metrics"
	"github.com/geospy/geospy-api/internal/middleware"
	"github.com/geospy/geospy-api/internal/service"
)

// Dependencies are the collaborators the HTTP API is built from.
type Dependencies struct {
	DB       *gorm.DB
	Auth     *config.AuthConfig
	Scrapes  *service.ScrapeService
	Answers  *service.AnswerService
	Analyses *service.AnalysisService
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires middleware and every route onto a new gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "geospy-api",
		})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/auth/login", LoginHandler(deps.DB, deps.Auth, deps.Logger))

	authorized := r.Group("/")
	authorized.Use(middleware.JWTRequired(deps.Auth.JWTSecret, deps.Logger))
	{
		authorized.POST("/projects", CreateProjectHandler(deps.DB, deps.Logger))
		authorized.GET("/projects", ListProjectsHandler(deps.DB, deps.Logger))
		authorized.GET("/projects/:id", GetProjectHandler(deps.DB, deps.Logger))
		authorized.DELETE("/projects/:id", DeleteProjectHandler(deps.DB, deps.Logger))

		authorized.POST("/projects/:id/scrape", ScrapeProjectHandler(deps.Scrapes, deps.Logger))
		authorized.GET("/projects/:id/scrapes", ListScrapesHandler(deps.DB, deps.Logger))
		authorized.POST("/projects/:id/answers", GenerateAnswersHandler(deps.Answers, deps.Logger))
		authorized.GET("/projects/:id/answers", ListAnswersHandler(deps.DB, deps.Logger))
		authorized.POST("/projects/:id/analyses", AnalyzeHandler(deps.Analyses, deps.Logger))
		authorized.GET("/projects/:id/analyses", ListAnalysesHandler(deps.DB, deps.Logger))
		authorized.GET("/projects/:id/analyses/:analysisId", GetAnalysisHandler(deps.DB, deps.Logger))
		authorized.GET("/projects/:id/recommendations", ListRecommendationsHandler(deps.DB, deps.Logger))
	}

	return r
}
