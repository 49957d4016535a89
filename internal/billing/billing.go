// Package billing maps subscription plans to usage limits.
package billing

import (
	"errors"
	"fmt"
)

type Plan string

const (
	PlanFree   Plan = "free"
	PlanPro    Plan = "pro"
	PlanAgency Plan = "agency"
)

// ErrQuotaExceeded is returned when an action would exceed the plan's limits.
var ErrQuotaExceeded = errors.New("plan quota exceeded")

// Limits are the per-plan caps.
type Limits struct {
	Projects          int `json:"projects"`
	URLsPerProject    int `json:"urlsPerProject"`
	QueriesPerRequest int `json:"queriesPerRequest"`
}

var planLimits = map[Plan]Limits{
	PlanFree:   {Projects: 1, URLsPerProject: 5, QueriesPerRequest: 3},
	PlanPro:    {Projects: 10, URLsPerProject: 20, QueriesPerRequest: 10},
	PlanAgency: {Projects: 100, URLsPerProject: 50, QueriesPerRequest: 25},
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// LimitsFor returns the limits of p. Unknown plans get the free limits.
func LimitsFor(p Plan) Limits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// CheckProjects fails when a user on p already owns existing projects at the cap.
func CheckProjects(p Plan, existing int64) error {
	if limit := LimitsFor(p).Projects; existing >= int64(limit) {
		return fmt.Errorf("%w: %s plan allows %d project(s)", ErrQuotaExceeded, planName(p), limit)
	}
	return nil
}

// CheckURLs fails when a project would hold more URLs than p allows.
func CheckURLs(p Plan, count int) error {
	if limit := LimitsFor(p).URLsPerProject; count > limit {
		return fmt.Errorf("%w: %s plan allows %d URL(s) per project", ErrQuotaExceeded, planName(p), limit)
	}
	return nil
}

// CheckQueries fails when one request carries more queries than p allows.
func CheckQueries(p Plan, count int) error {
	if limit := LimitsFor(p).QueriesPerRequest; count > limit {
		return fmt.Errorf("%w: %s plan allows %d queries per request", ErrQuotaExceeded, planName(p), limit)
	}
	return nil
}

func planName(p Plan) string {
	if p.Valid() {
		return string(p)
	}
	return string(PlanFree)
}
