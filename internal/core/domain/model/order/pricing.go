package order

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// BaseFareAmount is the flat component of every fare.
	BaseFareAmount = 5.00

	// DistanceRatePerKm is the per-kilometer component of the fare.
	DistanceRatePerKm = 1.50
)

// ErrPricingIsNotConstructed is returned when validating a Pricing that
// was not created via NewPricing or RestorePricing.
var ErrPricingIsNotConstructed = errs.NewValueIsRequiredError(
	"pricing must be created via NewPricing constructor")

// Pricing is the computed fare breakdown of an order. It is calculated once
// at order creation and never recomputed, so the stored breakdown stays
// stable even if rates change later.
type Pricing struct {
	baseFare     float64
	distanceFare float64
	priorityFare float64
	total        float64
	guard        guard.ConstructorGuard
}

// NewPricing computes the fare for a delivery distance and priority class.
//
// Each component is rounded to cents independently before summing, so the
// total can differ by a cent from rounding the raw sum. Stored orders depend
// on this exact arithmetic.
func NewPricing(distanceKm float64, priority Priority) (Pricing, error) {
	if distanceKm < 0 {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("distanceKm is invalid",
			fmt.Errorf("%v is negative", distanceKm))
	}
	if err := priority.Validate(); err != nil {
		return Pricing{}, err
	}

	baseFare := roundToCents(BaseFareAmount)
	distanceFare := roundToCents(distanceKm * DistanceRatePerKm)
	priorityFare := roundToCents(BaseFareAmount * priority.surchargeFactor())

	return Pricing{
		baseFare:     baseFare,
		distanceFare: distanceFare,
		priorityFare: priorityFare,
		total:        baseFare + distanceFare + priorityFare,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// RestorePricing reconstructs a stored fare breakdown from persistence
// without recomputing it.
func RestorePricing(baseFare float64, distanceFare float64, priorityFare float64, total float64) Pricing {
	return Pricing{
		baseFare:     baseFare,
		distanceFare: distanceFare,
		priorityFare: priorityFare,
		total:        total,
		guard:        guard.NewConstructorGuard(),
	}
}

// Validate checks that the Pricing was created through a constructor.
func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

// BaseFare returns the flat fare component.
func (p Pricing) BaseFare() float64 {
	return p.baseFare
}

// DistanceFare returns the distance-proportional component.
func (p Pricing) DistanceFare() float64 {
	return p.distanceFare
}

// PriorityFare returns the priority surcharge component.
func (p Pricing) PriorityFare() float64 {
	return p.priorityFare
}

// Total returns the sum of the rounded components.
func (p Pricing) Total() float64 {
	return p.total
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
