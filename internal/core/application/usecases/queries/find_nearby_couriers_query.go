package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrFindNearbyCouriersQueryIsNotConstructed = errors.New(
	"FindNearbyCouriersQuery must be created via NewFindNearbyCouriersQuery constructor",
)

// FindNearbyCouriersQuery retrieves available couriers around a point,
// ranked the same way the dispatcher ranks claim candidates. A non-positive
// radius falls back to the dispatch default.
type FindNearbyCouriersQuery struct {
	origin   kernel.Coordinate
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewFindNearbyCouriersQuery creates a nearby-courier query.
func NewFindNearbyCouriersQuery(origin kernel.Coordinate, radiusKm float64) (FindNearbyCouriersQuery, error) {
	if err := origin.Validate(); err != nil {
		return FindNearbyCouriersQuery{}, err
	}
	if radiusKm < 0 {
		return FindNearbyCouriersQuery{}, errs.NewValueIsInvalidError("radiusKm")
	}

	return FindNearbyCouriersQuery{
		origin:   origin,
		radiusKm: radiusKm,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q FindNearbyCouriersQuery) Validate() error {
	return q.guard.Validate(ErrFindNearbyCouriersQueryIsNotConstructed)
}

// Origin returns the point to search around.
func (q FindNearbyCouriersQuery) Origin() kernel.Coordinate {
	return q.origin
}

// RadiusKm returns the search radius; zero means the dispatch default.
func (q FindNearbyCouriersQuery) RadiusKm() float64 {
	return q.radiusKm
}

// FindNearbyCouriersQueryResponse represents one ranked courier in the read
// model.
type FindNearbyCouriersQueryResponse struct {
	ID            kernel.UUID
	Name          string
	Vehicle       string
	Lat           float64
	Lng           float64
	DistanceKm    float64
	AverageRating float64
	ReportedAt    time.Time
}
