package service

import (
	"math"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
)

// unitRate is the fare per station step in INR.
const unitRate = 10.0

// FareQuote is the result of a fare computation. Available is false when
// either station is outside the catalog; Amount is 0 in that case and must
// not be read as a free ticket.
type FareQuote struct {
	Amount    float64
	Available bool
}

// FareCalculator maps a route and ticket attributes to a fare. It is pure and
// deterministic: identical inputs always produce identical output, which the
// audit trail depends on.
type FareCalculator struct {
	catalog *catalog.Catalog
}

// NewFareCalculator creates a FareCalculator over the given station catalog.
func NewFareCalculator(c *catalog.Catalog) *FareCalculator {
	return &FareCalculator{catalog: c}
}

// Quote computes the fare for a route. The distance factor is the index gap
// between the stations in the ordered catalog, floored at 1 so a degenerate
// route still prices as one step. Multipliers apply in sequence: First Class
// doubles, Child halves, Return charges 1.8x one-way (bulk discount, not 2x).
func (f *FareCalculator) Quote(
	from, to string,
	class domain.FareClass,
	passenger domain.PassengerClass,
	validity domain.TripValidity,
) FareQuote {
	fromIdx, fromOK := f.catalog.Index(from)
	toIdx, toOK := f.catalog.Index(to)
	if !fromOK || !toOK {
		return FareQuote{Amount: 0, Available: false}
	}

	steps := toIdx - fromIdx
	if steps < 0 {
		steps = -steps
	}
	if steps < 1 {
		steps = 1
	}

	fare := float64(steps) * unitRate

	if class == domain.FareClassFirst {
		fare *= 2
	}
	if passenger == domain.PassengerChild {
		fare *= 0.5
	}
	if validity == domain.ValidityReturn {
		fare *= 1.8
	}

	return FareQuote{Amount: round2(fare), Available: true}
}

// round2 rounds to two decimal places using standard rounding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
