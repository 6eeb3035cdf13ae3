package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingQueryHandler retrieves an order's tracking snapshot from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern;
// the tracking history and proof references are decoded from their JSONB
// columns without touching the domain aggregate.
type GetTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingQueryHandler creates a handler for tracking queries.
// Requires a GORM database connection for query execution.
func NewGetTrackingQueryHandler(db *gorm.DB) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{db: db}
}

// Handle executes the query to retrieve the tracking snapshot.
// Returns a not found error when no order carries the number.
func (h GetTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingQuery,
) (*GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.status,
			o.priority,
			o.pickup_address, o.pickup_lat, o.pickup_lng, o.pickup_contact_name,
			o.delivery_address, o.delivery_lat, o.delivery_lng, o.delivery_contact_name,
			o.estimated_pickup_at, o.estimated_delivery_at,
			o.actual_pickup_at, o.actual_delivered_at,
			o.tracking,
			o.proof_images,
			c.name, c.vehicle, c.location_lat, c.location_lng
		FROM orders o
		LEFT JOIN couriers c ON c.id = o.courier_id
		WHERE o.number = ?
	`, query.OrderNumber()).Row()

	var (
		response    GetTrackingQueryResponse
		orderID     uuid.UUID
		estimatedP  sql.NullTime
		estimatedD  sql.NullTime
		actualP     sql.NullTime
		actualD     sql.NullTime
		trackingDoc []byte
		proofDoc    []byte
		courierName sql.NullString
		courierVeh  sql.NullString
		courierLat  sql.NullFloat64
		courierLng  sql.NullFloat64
	)

	err := row.Scan(
		&orderID,
		&response.OrderNumber,
		&response.Status,
		&response.Priority,
		&response.Pickup.Address, &response.Pickup.Lat, &response.Pickup.Lng, &response.Pickup.ContactName,
		&response.Delivery.Address, &response.Delivery.Lat, &response.Delivery.Lng, &response.Delivery.ContactName,
		&estimatedP, &estimatedD,
		&actualP, &actualD,
		&trackingDoc,
		&proofDoc,
		&courierName, &courierVeh, &courierLat, &courierLng,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderNumber())
		}
		return nil, err
	}

	response.OrderID, err = kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return nil, err
	}

	response.EstimatedPickupAt = nullableTime(estimatedP)
	response.EstimatedDeliveryAt = nullableTime(estimatedD)
	response.ActualPickupAt = nullableTime(actualP)
	response.ActualDeliveredAt = nullableTime(actualD)

	response.Events = make([]TrackingEventView, 0)
	if len(trackingDoc) > 0 {
		if err = json.Unmarshal(trackingDoc, &response.Events); err != nil {
			return nil, err
		}
	}

	response.ProofImages = make([]string, 0)
	if len(proofDoc) > 0 {
		if err = json.Unmarshal(proofDoc, &response.ProofImages); err != nil {
			return nil, err
		}
	}

	if courierName.Valid {
		view := &TrackingCourierView{
			Name:    courierName.String,
			Vehicle: courierVeh.String,
		}
		if courierLat.Valid && courierLng.Valid {
			lat, lng := courierLat.Float64, courierLng.Float64
			view.Lat = &lat
			view.Lng = &lng
		}
		response.Courier = view
	}

	return &response, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
