package services

import (
	"math"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Estimate is a computed travel estimate between two points for a specific
// vehicle speed.
type Estimate struct {
	DistanceKm float64
	SpeedKmh   float64
	Minutes    int
}

// ETAEstimator is a domain service that turns great-circle distances and
// vehicle speeds into whole-minute travel estimates. Minutes are rounded up
// so estimates never promise more than the math supports.
type ETAEstimator struct{}

// NewETAEstimator creates an ETAEstimator.
func NewETAEstimator() ETAEstimator {
	return ETAEstimator{}
}

// Estimate computes the travel estimate between two points at a speed in
// km/h. Non-positive speeds fall back to courier.DefaultSpeedKmh.
func (e ETAEstimator) Estimate(from kernel.Coordinate, to kernel.Coordinate, speedKmh float64) (Estimate, error) {
	distanceKm, err := from.DistanceKmTo(to)
	if err != nil {
		return Estimate{}, err
	}

	if speedKmh <= 0 {
		speedKmh = courier.DefaultSpeedKmh
	}

	return Estimate{
		DistanceKm: distanceKm,
		SpeedKmh:   speedKmh,
		Minutes:    int(math.Ceil(distanceKm / speedKmh * 60)),
	}, nil
}

// EstimateForOrder computes the pickup and delivery ETAs for a courier
// claiming an order: courier position to pickup, then pickup to delivery,
// both at the courier's vehicle speed and anchored at now.
func (e ETAEstimator) EstimateForOrder(o *order.Order, c *courier.Courier, now time.Time) (pickupAt time.Time, deliveryAt time.Time, err error) {
	if err = o.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err = c.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	position, err := c.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	toPickup, err := e.Estimate(position, o.Pickup().Coordinate(), c.SpeedKmh())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDelivery, err := e.Estimate(o.Pickup().Coordinate(), o.Delivery().Coordinate(), c.SpeedKmh())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	pickupAt = now.Add(time.Duration(toPickup.Minutes) * time.Minute)
	deliveryAt = pickupAt.Add(time.Duration(toDelivery.Minutes) * time.Minute)
	return pickupAt, deliveryAt, nil
}
