package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/db"
)

func TestCreateUser(t *testing.T) {
	conn := newTestDB(t)

	user := newTestUser(t, conn, "alice", "")
	assert.Equal(t, billing.PlanFree, user.Plan)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, CheckPassword(user, "password123"))
	assert.False(t, CheckPassword(user, "wrong"))

	_, err := CreateUser(conn, "bob", "pw", "platinum")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GetUserByUsername(conn, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProject(t *testing.T) {
	conn := newTestDB(t)
	user := newTestUser(t, conn, "alice", billing.PlanPro)

	project := newShoeProject(t, conn, user.ID)

	require.Len(t, project.URLs, 3)
	assert.Equal(t, db.RoleTarget, project.URLs[0].Role)
	assert.Equal(t, "shop.example", project.URLs[0].Domain)
	assert.Equal(t, db.RoleCompetitor, project.URLs[1].Role)
	assert.Equal(t, db.RoleCompetitor, project.URLs[2].Role)

	got, err := GetProject(conn, user.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, got.URLs, 3)
	assert.Equal(t, "best running shoes", got.TargetTopic)
}

func TestCreateProject_InvalidInput(t *testing.T) {
	conn := newTestDB(t)
	user := newTestUser(t, conn, "alice", billing.PlanPro)

	tests := []struct {
		name string
		urls []URLInput
	}{
		{name: "no urls"},
		{name: "not a url", urls: []URLInput{{Address: "shop.example"}}},
		{name: "ftp scheme", urls: []URLInput{{Address: "ftp://shop.example"}}},
		{name: "unknown role", urls: []URLInput{{Address: "https://a.example", Role: "owner"}}},
		{name: "no target", urls: []URLInput{{Address: "https://a.example", Role: db.RoleCompetitor}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateProject(conn, user.ID, "p", "topic", tt.urls)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := CreateProject(conn, user.ID, " ", "topic", []URLInput{{Address: "https://a.example"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProject_Quota(t *testing.T) {
	conn := newTestDB(t)
	user := newTestUser(t, conn, "alice", billing.PlanFree)

	tooMany := make([]URLInput, 6)
	for i := range tooMany {
		tooMany[i] = URLInput{Address: "https://site.example/" + string(rune('a'+i))}
	}
	_, err := CreateProject(conn, user.ID, "p", "topic", tooMany)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	newShoeProject(t, conn, user.ID)
	_, err = CreateProject(conn, user.ID, "second", "topic", []URLInput{{Address: "https://a.example"}})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestProjectOwnership(t *testing.T) {
	conn := newTestDB(t)
	alice := newTestUser(t, conn, "alice", billing.PlanPro)
	mallory := newTestUser(t, conn, "mallory", billing.PlanPro)
	project := newShoeProject(t, conn, alice.ID)

	_, err := GetProject(conn, mallory.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteProject(conn, mallory.ID, project.ID), ErrNotFound)
	_, err = ListAnswers(conn, mallory.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	projects, err := ListProjects(conn, mallory.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDeleteProject_Cascades(t *testing.T) {
	conn := newTestDB(t)
	user := newTestUser(t, conn, "alice", billing.PlanPro)
	project := newShoeProject(t, conn, user.ID)

	_, err := SaveScrape(conn, crawler.Outcome{URLID: project.URLs[0].ID, Status: crawler.StatusSuccess})
	require.NoError(t, err)
	require.NoError(t, conn.Create(&db.AIAnswer{ProjectID: project.ID, Query: "q", Answer: "a"}).Error)
	result := db.AnalysisResult{ProjectID: project.ID, AIAnswerID: 1}
	require.NoError(t, SaveAnalysis(conn, &result, []db.Recommendation{{Priority: "high", Category: "missing_content", Title: "t"}}))

	require.NoError(t, DeleteProject(conn, user.ID, project.ID))

	for _, model := range db.Models()[1:] {
		var count int64
		require.NoError(t, conn.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
}
