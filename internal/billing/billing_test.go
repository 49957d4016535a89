package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsFor(t *testing.T) {
	assert.Equal(t, Limits{Projects: 1, URLsPerProject: 5, QueriesPerRequest: 3}, LimitsFor(PlanFree))
	assert.Equal(t, Limits{Projects: 10, URLsPerProject: 20, QueriesPerRequest: 10}, LimitsFor(PlanPro))
	assert.Equal(t, Limits{Projects: 100, URLsPerProject: 50, QueriesPerRequest: 25}, LimitsFor(PlanAgency))
	assert.Equal(t, LimitsFor(PlanFree), LimitsFor("enterprise"))
}

func TestChecks(t *testing.T) {
	assert.NoError(t, CheckProjects(PlanFree, 0))
	assert.ErrorIs(t, CheckProjects(PlanFree, 1), ErrQuotaExceeded)
	assert.NoError(t, CheckProjects(PlanPro, 9))

	assert.NoError(t, CheckURLs(PlanFree, 5))
	assert.ErrorIs(t, CheckURLs(PlanFree, 6), ErrQuotaExceeded)

	assert.NoError(t, CheckQueries(PlanAgency, 25))
	err := CheckQueries(PlanFree, 4)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "free plan allows 3")
}

func TestPlanValid(t *testing.T) {
	assert.True(t, PlanAgency.Valid())
	assert.False(t, Plan("").Valid())
}
