package service

import (
	"strings"
	"time"

	"ticketing/internal/domain"
)

const (
	oneWayWindow = 24 * time.Hour
	returnWindow = 48 * time.Hour
)

// AssessExpiry computes whether a ticket's usage window has elapsed. The
// window is 48h when the validity text contains "return" (case-insensitive
// substring, matching tickets like "Return Trip"), else 24h. The boundary
// instant itself is not expired; only strictly after it is.
//
// A zero issue timestamp or empty validity yields an unassessed result rather
// than a false positive.
func AssessExpiry(issuedAt time.Time, validity string, now time.Time) domain.ExpiryAssessment {
	if issuedAt.IsZero() || validity == "" {
		return domain.ExpiryAssessment{Assessed: false}
	}

	window := oneWayWindow
	if strings.Contains(strings.ToLower(validity), "return") {
		window = returnWindow
	}

	expiresAt := issuedAt.Add(window)
	return domain.ExpiryAssessment{
		Assessed:  true,
		Expired:   now.After(expiresAt),
		ExpiresAt: expiresAt,
	}
}
