package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/config"
	"github.com/geospy/geospy-api/internal/middleware"
	"github.com/geospy/geospy-api/internal/service"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse represents the login response payload
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	UserID    uint         `json:"user_id"`
	Username  string       `json:"username"`
	Plan      billing.Plan `json:"plan"`
}

// LoginHandler handles user authentication
func LoginHandler(dbConn *gorm.DB, cfg *config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username cannot be empty"})
			return
		}

		user, err := service.GetUserByUsername(dbConn, req.Username)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				logger.Info("login attempt with unknown username", zap.String("username", req.Username))
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			logger.Error("database error during login", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !service.CheckPassword(user, req.Password) {
			logger.Info("failed login attempt", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, expiresAt, err := middleware.IssueToken(cfg.JWTSecret, user.ID, user.Username, cfg.JWTDuration)
		if err != nil {
			logger.Error("failed to sign jwt", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		logger.Info("successful login", zap.String("username", user.Username))
		c.JSON(http.StatusOK, LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			UserID:    user.ID,
			Username:  user.Username,
			Plan:      user.Plan,
		})
	}
}
