package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstimateETAQueryHandler computes a live arrival estimate from the
// assigned courier's current position. Only active assignments can be
// estimated; after pickup the pickup leg drops out of the total.
type EstimateETAQueryHandler struct {
	db        *gorm.DB
	estimator services.ETAEstimator
}

// NewEstimateETAQueryHandler creates a handler for live ETA queries.
// Requires a GORM database connection for query execution.
func NewEstimateETAQueryHandler(db *gorm.DB) EstimateETAQueryHandler {
	return EstimateETAQueryHandler{
		db:        db,
		estimator: services.NewETAEstimator(),
	}
}

// Handle executes the query and returns the live estimate.
func (h EstimateETAQueryHandler) Handle(
	ctx context.Context,
	query EstimateETAQuery,
) (*EstimateETAQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.number,
			o.status,
			o.pickup_lat, o.pickup_lng,
			o.delivery_lat, o.delivery_lng,
			c.id, c.vehicle, c.location_lat, c.location_lng
		FROM orders o
		LEFT JOIN couriers c ON c.id = o.courier_id
		WHERE o.number = ?
	`, query.OrderNumber()).Row()

	var (
		number      string
		statusLabel string
		pickupLat   float64
		pickupLng   float64
		delivLat    float64
		delivLng    float64
		courierID   *uuid.UUID
		vehicle     sql.NullString
		courierLat  sql.NullFloat64
		courierLng  sql.NullFloat64
	)

	err := row.Scan(
		&number,
		&statusLabel,
		&pickupLat, &pickupLng,
		&delivLat, &delivLng,
		&courierID, &vehicle, &courierLat, &courierLng,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderNumber())
		}
		return nil, err
	}

	status, err := order.ParseStatus(statusLabel)
	if err != nil {
		return nil, err
	}

	if courierID == nil || status.IsTerminal() || status == order.Pending {
		return nil, order.ErrNoActiveAssignment
	}
	if !courierLat.Valid || !courierLng.Valid {
		return nil, courier.ErrNoPresence
	}

	vehicleType, err := courier.ParseVehicleType(vehicle.String)
	if err != nil {
		return nil, err
	}
	speedKmh := vehicleType.SpeedKmh()

	position, err := kernel.NewCoordinate(courierLat.Float64, courierLng.Float64)
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.NewCoordinate(pickupLat, pickupLng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewCoordinate(delivLat, delivLng)
	if err != nil {
		return nil, err
	}

	response := EstimateETAQueryResponse{
		OrderNumber: number,
		Status:      statusLabel,
		SpeedKmh:    speedKmh,
	}

	if status == order.Assigned {
		toPickup, estErr := h.estimator.Estimate(position, pickup, speedKmh)
		if estErr != nil {
			return nil, estErr
		}
		toDelivery, estErr := h.estimator.Estimate(pickup, delivery, speedKmh)
		if estErr != nil {
			return nil, estErr
		}

		response.PickupEtaMinutes = toPickup.Minutes
		response.DeliveryEtaMinutes = toPickup.Minutes + toDelivery.Minutes
		response.EtaMinutes = response.DeliveryEtaMinutes
		response.DistanceKm = toPickup.DistanceKm + toDelivery.DistanceKm
		return &response, nil
	}

	// picked_up or in_transit: only the leg to the delivery point remains
	remaining, err := h.estimator.Estimate(position, delivery, speedKmh)
	if err != nil {
		return nil, err
	}

	response.DeliveryEtaMinutes = remaining.Minutes
	response.EtaMinutes = remaining.Minutes
	response.DistanceKm = remaining.DistanceKm
	return &response, nil
}
