package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// a single connection keeps every goroutine on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

func newTestUser(t *testing.T, conn *gorm.DB, name string, plan billing.Plan) *db.User {
	t.Helper()
	user, err := CreateUser(conn, name, "password123", plan)
	require.NoError(t, err)
	return user
}

func newShoeProject(t *testing.T, conn *gorm.DB, userID uint) *db.Project {
	t.Helper()
	project, err := CreateProject(conn, userID, "Running shoes", "best running shoes", []URLInput{
		{Address: "https://www.shop.example/shoes"},
		{Address: "https://rival.example/guide"},
		{Address: "https://other.example/review", Role: db.RoleCompetitor},
	})
	require.NoError(t, err)
	return project
}

// scriptedCompleter answers by prompt kind.
type scriptedCompleter struct{}

func (scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Rewrite the search query"):
		if strings.Contains(prompt, "fail") {
			return "", errors.New("enhancer down")
		}
		return `"What are the best running shoes?"`, nil
	case strings.Contains(prompt, "Extract the main topics"):
		return "```json\n{\"topics\":[\"cushioning\",\"warranty\"],\"entities\":[\"Acme\"]}\n```", nil
	case strings.Contains(prompt, "fail"):
		return "", errors.New("completion down")
	default:
		return "1. Pick cushioning\n2. Check the warranty", nil
	}
}
