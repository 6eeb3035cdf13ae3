package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindNearbyCouriersQueryHandler retrieves and ranks available couriers
// around a point. Rows are restored into courier aggregates and ranked by
// the dispatcher so the read model and the dispatch job agree on who is
// "nearest".
type FindNearbyCouriersQueryHandler struct {
	db *gorm.DB
}

// NewFindNearbyCouriersQueryHandler creates a handler for nearby-courier queries.
// Requires a GORM database connection for query execution.
func NewFindNearbyCouriersQueryHandler(db *gorm.DB) FindNearbyCouriersQueryHandler {
	return FindNearbyCouriersQueryHandler{db: db}
}

// Handle executes the query and returns ranked couriers, best first.
func (h FindNearbyCouriersQueryHandler) Handle(
	ctx context.Context,
	query FindNearbyCouriersQuery,
) ([]FindNearbyCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			vehicle,
			location_lat, location_lng, location_reported_at,
			rating_sum, rating_count
		FROM couriers
		WHERE available = true
			AND location_lat IS NOT NULL
			AND location_lng IS NOT NULL
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	couriers := make([]*courier.Courier, 0)
	for rows.Next() {
		var (
			id          uuid.UUID
			name        string
			phone       sql.NullString
			vehicle     string
			lat         float64
			lng         float64
			reportedAt  sql.NullTime
			ratingSum   float64
			ratingCount int
		)

		err = rows.Scan(&id, &name, &phone, &vehicle, &lat, &lng, &reportedAt, &ratingSum, &ratingCount)
		if err != nil {
			return nil, err
		}

		restored, restoreErr := restoreCourierRow(id, name, phone.String, vehicle, lat, lng, reportedAt, ratingSum, ratingCount)
		if restoreErr != nil {
			return nil, restoreErr
		}
		couriers = append(couriers, restored)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	dispatcher := services.NewDispatcher(query.RadiusKm())
	candidates, err := dispatcher.FindNearby(query.Origin(), couriers)
	if err != nil {
		return nil, err
	}

	responses := make([]FindNearbyCouriersQueryResponse, 0, len(candidates))
	for _, candidate := range candidates {
		position, posErr := candidate.Courier.Location()
		if posErr != nil {
			return nil, posErr
		}

		responses = append(responses, FindNearbyCouriersQueryResponse{
			ID:            candidate.Courier.ID(),
			Name:          candidate.Courier.Name(),
			Vehicle:       candidate.Courier.Vehicle().String(),
			Lat:           position.Latitude(),
			Lng:           position.Longitude(),
			DistanceKm:    candidate.DistanceKm,
			AverageRating: candidate.Courier.AverageRating(),
			ReportedAt:    *candidate.Courier.LocationReportedAt(),
		})
	}

	return responses, nil
}

func restoreCourierRow(
	id uuid.UUID,
	name string,
	phone string,
	vehicle string,
	lat float64,
	lng float64,
	reportedAt sql.NullTime,
	ratingSum float64,
	ratingCount int,
) (*courier.Courier, error) {
	courierID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}

	vehicleType, err := courier.ParseVehicleType(vehicle)
	if err != nil {
		return nil, err
	}

	position, err := kernel.NewCoordinate(lat, lng)
	if err != nil {
		return nil, err
	}

	at := reportedAt.Time
	return courier.RestoreCourier(
		courierID,
		name,
		phone,
		vehicleType,
		true,
		&position,
		&at,
		ratingSum,
		ratingCount,
	)
}
