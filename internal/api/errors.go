package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/middleware"
	"github.com/geospy/geospy-api/internal/service"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, "Not found"},
	{service.ErrInvalidInput, http.StatusBadRequest, ""},
	{crawler.ErrNoURLs, http.StatusBadRequest, "Project has no URLs"},
	{service.ErrQuotaExceeded, http.StatusPaymentRequired, "Plan limit reached"},
	{service.ErrNoTargetContent, http.StatusConflict, "Target page has not been scraped successfully"},
	{crawler.ErrMissingCredential, http.StatusServiceUnavailable, "Scraping service is not configured"},
	{ai.ErrMissingCredential, http.StatusServiceUnavailable, "AI service is not configured"},
	{ai.ErrUnavailable, http.StatusBadGateway, "AI service unavailable"},
	{ai.ErrMalformedResponse, http.StatusBadGateway, "AI service returned an invalid response"},
}

// statusFor maps a service error to an HTTP status and a short message.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				// input errors carry their own explanation
				msg = err.Error()
			}
			return m.status, msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// respondError writes err as a JSON error body. Only 5xx errors are logged.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

// currentUser returns the authenticated user id or aborts with 401.
func currentUser(c *gin.Context) (uint, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return 0, false
	}
	return user.UserID, true
}

// uintParam parses a positive integer path parameter or aborts with 400.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
