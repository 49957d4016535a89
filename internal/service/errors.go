package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/billing"
)

var (
	// ErrNotFound covers both missing records and records owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed or empty input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoTargetContent is returned when no target page has been scraped successfully.
	ErrNoTargetContent = analysis.ErrNoTargetContent
	// ErrQuotaExceeded is returned when the user's plan does not allow the action.
	ErrQuotaExceeded = billing.ErrQuotaExceeded
)

// translate maps gorm's not-found error onto ErrNotFound.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
