package service

import (
	"time"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
)

// InspectionInput is the structured ticket data under inspection, typically
// the fields the OCR collaborator extracted from a ticket image.
type InspectionInput struct {
	FromStation string
	ToStation   string
	Validity    string
	IssuedAt    time.Time
}

// InspectionService judges whether a ticket is being used validly: inside
// its time window and near its declared route. Both checks are advisory.
type InspectionService struct {
	verifier *DistanceVerifier
}

// NewInspectionService creates a new InspectionService.
func NewInspectionService(verifier *DistanceVerifier) *InspectionService {
	return &InspectionService{verifier: verifier}
}

// Assess computes a fresh validity assessment. The proximity check runs only
// when a caller position is supplied; a missing position (for example a
// geolocation timeout) degrades to no proximity judgment rather than a false
// warning. The result is never stored.
func (s *InspectionService) Assess(input InspectionInput, position *catalog.Coordinate, now time.Time) domain.ValidityAssessment {
	assessment := domain.ValidityAssessment{
		Expiry: AssessExpiry(input.IssuedAt, input.Validity, now),
	}

	if position != nil {
		check := s.verifier.CheckProximity(*position, input.FromStation, input.ToStation)
		assessment.Proximity = &check
	}

	return assessment
}
