package services

import (
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DefaultSearchRadiusKm is the dispatch search radius used when no radius
// is configured.
const DefaultSearchRadiusKm = 10.0

// ErrCourierNotFound is returned when no dispatchable courier is within the
// search radius of the pickup point.
var ErrCourierNotFound = errors.New("courier not found")

// Candidate pairs a dispatchable courier with its distance to the point of
// interest, ready for ranking.
type Candidate struct {
	Courier    *courier.Courier
	DistanceKm float64
}

// Dispatcher is a domain service that ranks couriers for a pickup.
//
// A courier is a candidate when it is available, has reported a position,
// and that position is within the search radius of the pickup point.
// Candidates are ranked by distance ascending, then by rating descending,
// then by the age of the position report (older reports first, so couriers
// waiting longer win ties).
//
// Dispatcher only ranks; it never mutates orders or couriers. The claim
// itself is arbitrated by the store's optimistic version check.
type Dispatcher struct {
	searchRadiusKm float64
}

// NewDispatcher creates a Dispatcher with the given search radius in
// kilometers. Non-positive radii fall back to DefaultSearchRadiusKm.
func NewDispatcher(searchRadiusKm float64) Dispatcher {
	if searchRadiusKm <= 0 {
		searchRadiusKm = DefaultSearchRadiusKm
	}
	return Dispatcher{searchRadiusKm: searchRadiusKm}
}

// SearchRadiusKm returns the configured search radius.
func (d Dispatcher) SearchRadiusKm() float64 {
	return d.searchRadiusKm
}

// FindNearby filters and ranks couriers around a point.
//
// Couriers that are unavailable, have no presence, or sit outside the
// search radius are skipped. The returned slice is ordered best-first and
// may be empty.
func (d Dispatcher) FindNearby(point kernel.Coordinate, couriers []*courier.Courier) ([]Candidate, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsAvailable() || !c.HasPresence() {
			continue
		}

		position, err := c.Location()
		if err != nil {
			return nil, err
		}
		distanceKm, err := position.DistanceKmTo(point)
		if err != nil {
			return nil, err
		}
		if distanceKm > d.searchRadiusKm {
			continue
		}

		candidates = append(candidates, Candidate{Courier: c, DistanceKm: distanceKm})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Courier.AverageRating() != b.Courier.AverageRating() {
			return a.Courier.AverageRating() > b.Courier.AverageRating()
		}
		aAt, bAt := a.Courier.LocationReportedAt(), b.Courier.LocationReportedAt()
		return aAt.Before(*bAt)
	})

	return candidates, nil
}

// RankForPickup ranks couriers for an order's pickup waypoint and fails
// with ErrCourierNotFound when nobody qualifies.
func (d Dispatcher) RankForPickup(o *order.Order, couriers []*courier.Courier) ([]Candidate, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	candidates, err := d.FindNearby(o.Pickup().Coordinate(), couriers)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrCourierNotFound
	}

	return candidates, nil
}
