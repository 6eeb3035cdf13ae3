package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrEstimateETAQueryIsNotConstructed = errors.New(
	"EstimateETAQuery must be created via NewEstimateETAQuery constructor",
)

// EstimateETAQuery computes a fresh arrival estimate for an order from the
// assigned courier's last reported position. Unlike the estimates stamped
// at claim time, this reflects where the courier is now.
type EstimateETAQuery struct {
	orderNumber string

	guard guard.ConstructorGuard
}

// NewEstimateETAQuery creates an ETA query for an order number.
func NewEstimateETAQuery(orderNumber string) (EstimateETAQuery, error) {
	if orderNumber == "" {
		return EstimateETAQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	if err := order.ValidateNumber(orderNumber); err != nil {
		return EstimateETAQuery{}, err
	}

	return EstimateETAQuery{
		orderNumber: orderNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q EstimateETAQuery) Validate() error {
	return q.guard.Validate(ErrEstimateETAQueryIsNotConstructed)
}

// OrderNumber returns the public number of the estimated order.
func (q EstimateETAQuery) OrderNumber() string {
	return q.orderNumber
}

// EstimateETAQueryResponse represents a live arrival estimate. Before
// pickup the estimate covers the leg to the pickup point plus the delivery
// leg; after pickup only the remaining leg to the delivery point counts.
type EstimateETAQueryResponse struct {
	OrderNumber        string
	Status             string
	DistanceKm         float64
	SpeedKmh           float64
	EtaMinutes         int
	PickupEtaMinutes   int
	DeliveryEtaMinutes int
}
