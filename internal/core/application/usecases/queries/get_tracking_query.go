// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the domain aggregates and read optimized models straight
// from the database.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetTrackingQueryIsNotConstructed = errors.New(
	"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
)

// GetTrackingQuery retrieves the public tracking snapshot of an order by its
// order number. This is the read model behind the customer-facing tracking
// page: current status, waypoints, time estimates, the full tracking history
// and the assigned courier's public details.
type GetTrackingQuery struct {
	orderNumber string

	guard guard.ConstructorGuard
}

// NewGetTrackingQuery creates a tracking query for an order number.
func NewGetTrackingQuery(orderNumber string) (GetTrackingQuery, error) {
	if orderNumber == "" {
		return GetTrackingQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	if err := order.ValidateNumber(orderNumber); err != nil {
		return GetTrackingQuery{}, err
	}

	return GetTrackingQuery{
		orderNumber: orderNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

// OrderNumber returns the public number of the tracked order.
func (q GetTrackingQuery) OrderNumber() string {
	return q.orderNumber
}

// TrackingWaypointView is a pickup or delivery stop in the read model.
type TrackingWaypointView struct {
	Address     string
	Lat         float64
	Lng         float64
	ContactName string
}

// TrackingEventView is one tracking history entry in the read model. The
// JSON tags match the stored tracking document.
type TrackingEventView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// TrackingCourierView is the assigned courier's public subset in the read
// model. Position is nil until the courier reports one.
type TrackingCourierView struct {
	Name    string
	Vehicle string
	Lat     *float64
	Lng     *float64
}

// GetTrackingQueryResponse represents an order's tracking snapshot.
type GetTrackingQueryResponse struct {
	OrderID             kernel.UUID
	OrderNumber         string
	Status              string
	Priority            string
	Pickup              TrackingWaypointView
	Delivery            TrackingWaypointView
	EstimatedPickupAt   *time.Time
	EstimatedDeliveryAt *time.Time
	ActualPickupAt      *time.Time
	ActualDeliveredAt   *time.Time
	Events              []TrackingEventView
	ProofImages         []string
	Courier             *TrackingCourierView
}
