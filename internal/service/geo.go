package service

import (
	"math"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
)

const (
	// earthRadiusMeters is the mean sphere radius used by the haversine formula.
	earthRadiusMeters = 6371000.0

	// DefaultProximityThresholdMeters is the geofence radius around a route
	// endpoint within which a ticket is considered to be used in place.
	DefaultProximityThresholdMeters = 500.0
)

// HaversineMeters returns the great-circle distance in meters between two
// points given in decimal degrees.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceVerifier classifies whether a position is near enough to a route's
// endpoints. Purely computational; the result is advisory and never blocks
// the action it annotates.
type DistanceVerifier struct {
	catalog         *catalog.Catalog
	thresholdMeters float64
}

// NewDistanceVerifier creates a DistanceVerifier with the default threshold.
func NewDistanceVerifier(c *catalog.Catalog) *DistanceVerifier {
	return &DistanceVerifier{catalog: c, thresholdMeters: DefaultProximityThresholdMeters}
}

// NewDistanceVerifierWithThreshold overrides the geofence radius.
func NewDistanceVerifierWithThreshold(c *catalog.Catalog, thresholdMeters float64) *DistanceVerifier {
	return &DistanceVerifier{catalog: c, thresholdMeters: thresholdMeters}
}

// CheckProximity computes the distance from pos to both endpoints of the
// route and warns when the nearer one exceeds the threshold. A station name
// missing from the catalog yields ProximityUnknown, which callers must not
// conflate with "too far".
func (v *DistanceVerifier) CheckProximity(pos catalog.Coordinate, fromStation, toStation string) domain.ProximityCheck {
	fromPos, fromOK := v.catalog.Coordinates(fromStation)
	toPos, toOK := v.catalog.Coordinates(toStation)
	if !fromOK || !toOK {
		return domain.ProximityCheck{
			Status:          domain.ProximityUnknown,
			ThresholdMeters: v.thresholdMeters,
		}
	}

	dFrom := HaversineMeters(pos.Lat, pos.Lng, fromPos.Lat, fromPos.Lng)
	dTo := HaversineMeters(pos.Lat, pos.Lng, toPos.Lat, toPos.Lng)

	nearest := math.Min(dFrom, dTo)
	status := domain.ProximityOK
	if nearest > v.thresholdMeters {
		status = domain.ProximityWarn
	}

	return domain.ProximityCheck{
		Status:          status,
		DistanceMeters:  nearest,
		ThresholdMeters: v.thresholdMeters,
	}
}
