package tests

import (
	"math"
	"testing"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
	"ticketing/internal/service"
)

// ──────────────────────────────────────────────
// 3. DISTANCE & GEOFENCE
// ──────────────────────────────────────────────

func TestHaversine_ZeroDistanceForSamePoint(t *testing.T) {
	t.Parallel()

	d := service.HaversineMeters(19.0186, 72.8446, 19.0186, 72.8446)
	if d != 0 {
		t.Errorf("expected zero distance, got %f", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	t.Parallel()

	d1 := service.HaversineMeters(18.9353, 72.8277, 19.0186, 72.8446)
	d2 := service.HaversineMeters(19.0186, 72.8446, 18.9353, 72.8277)

	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	t.Parallel()

	// Churchgate to Dadar is roughly 9.4km as the crow flies.
	d := service.HaversineMeters(18.9353, 72.8277, 19.0186, 72.8446)
	if d < 9000 || d > 10000 {
		t.Errorf("Churchgate-Dadar distance out of expected range: %f", d)
	}
}

func TestProximity_AtStation_OK(t *testing.T) {
	t.Parallel()

	stations := catalog.Default()
	verifier := service.NewDistanceVerifier(stations)

	pos, ok := stations.Coordinates("Churchgate")
	if !ok {
		t.Fatal("Churchgate missing from catalog")
	}

	check := verifier.CheckProximity(pos, "Churchgate", "Dadar")
	if check.Status != domain.ProximityOK {
		t.Errorf("expected OK at the origin station, got %s", check.Status)
	}
	if check.DistanceMeters != 0 {
		t.Errorf("expected zero distance, got %f", check.DistanceMeters)
	}
	if check.ThresholdMeters != service.DefaultProximityThresholdMeters {
		t.Errorf("expected threshold %f, got %f",
			service.DefaultProximityThresholdMeters, check.ThresholdMeters)
	}
}

func TestProximity_NearerEndpointDecides(t *testing.T) {
	t.Parallel()

	stations := catalog.Default()
	verifier := service.NewDistanceVerifier(stations)

	// Standing at the destination is as good as standing at the origin.
	pos, _ := stations.Coordinates("Dadar")
	check := verifier.CheckProximity(pos, "Churchgate", "Dadar")
	if check.Status != domain.ProximityOK {
		t.Errorf("expected OK at the destination station, got %s", check.Status)
	}
}

func TestProximity_FarFromBothEndpoints_Warns(t *testing.T) {
	t.Parallel()

	stations := catalog.Default()
	verifier := service.NewDistanceVerifier(stations)

	// Thane is kilometers from both Western Line endpoints.
	pos, _ := stations.Coordinates("Thane")
	check := verifier.CheckProximity(pos, "Churchgate", "Dadar")
	if check.Status != domain.ProximityWarn {
		t.Errorf("expected WARN far from the route, got %s", check.Status)
	}
	if check.DistanceMeters <= check.ThresholdMeters {
		t.Errorf("warn result must carry a distance beyond the threshold, got %f", check.DistanceMeters)
	}
}

func TestProximity_ThresholdBoundaryDoesNotWarn(t *testing.T) {
	t.Parallel()

	stations := catalog.Default()

	// Widen the geofence until the checker position is inside it; only a
	// distance strictly beyond the threshold warns.
	pos, _ := stations.Coordinates("Bandra")
	tight := service.NewDistanceVerifierWithThreshold(stations, 100)
	check := tight.CheckProximity(pos, "Churchgate", "Dadar")
	if check.Status != domain.ProximityWarn {
		t.Fatalf("expected WARN with a 100m geofence, got %s", check.Status)
	}

	wide := service.NewDistanceVerifierWithThreshold(stations, check.DistanceMeters)
	atBoundary := wide.CheckProximity(pos, "Churchgate", "Dadar")
	if atBoundary.Status != domain.ProximityOK {
		t.Errorf("distance equal to the threshold must not warn, got %s", atBoundary.Status)
	}
}

func TestProximity_UnknownStation_Unknown(t *testing.T) {
	t.Parallel()

	stations := catalog.Default()
	verifier := service.NewDistanceVerifier(stations)

	pos, _ := stations.Coordinates("Dadar")
	check := verifier.CheckProximity(pos, "Atlantis", "Dadar")
	if check.Status != domain.ProximityUnknown {
		t.Errorf("unknown station must yield UNKNOWN, not %s", check.Status)
	}
}
