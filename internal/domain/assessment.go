package domain

import "time"

// ExpiryAssessment is the time-window judgment for a ticket under inspection.
// Assessed is false when the inputs were missing, which is distinct from both
// expired and valid.
type ExpiryAssessment struct {
	Assessed  bool
	Expired   bool
	ExpiresAt time.Time
}

// ProximityStatus classifies the geofence check outcome.
type ProximityStatus string

const (
	ProximityOK      ProximityStatus = "OK"
	ProximityWarn    ProximityStatus = "WARN"
	ProximityUnknown ProximityStatus = "UNKNOWN"
)

// ProximityCheck is the advisory geofence result. DistanceMeters is the
// distance to the nearer of the two route endpoints.
type ProximityCheck struct {
	Status          ProximityStatus
	DistanceMeters  float64
	ThresholdMeters float64
}

// ValidityAssessment is computed fresh on each inspection and never stored.
// Proximity is nil when no caller position was available.
type ValidityAssessment struct {
	Expiry    ExpiryAssessment
	Proximity *ProximityCheck
}
