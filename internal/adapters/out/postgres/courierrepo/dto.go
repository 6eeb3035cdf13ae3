// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// Presence is a nullable column group: a courier that has never reported a
// position has all three presence columns NULL.
type CourierDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32)"`
	Vehicle   string    `gorm:"type:varchar(16);not null"`
	Available bool      `gorm:"not null;index"`

	LocationLat        *float64
	LocationLng        *float64
	LocationReportedAt *time.Time

	RatingSum   float64 `gorm:"not null"`
	RatingCount int     `gorm:"not null"`

	CreatedAt time.Time
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:          aggregate.ID().Bytes(),
		Name:        aggregate.Name(),
		Phone:       aggregate.Phone(),
		Vehicle:     aggregate.Vehicle().String(),
		Available:   aggregate.IsAvailable(),
		RatingSum:   aggregate.RatingSum(),
		RatingCount: aggregate.RatingCount(),
	}

	if aggregate.HasPresence() {
		location, err := aggregate.Location()
		if err == nil {
			lat, lng := location.Latitude(), location.Longitude()
			dto.LocationLat = &lat
			dto.LocationLng = &lng
			dto.LocationReportedAt = aggregate.LocationReportedAt()
		}
	}

	return dto
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including presence using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicle, err := courier.ParseVehicleType(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	var location *kernel.Coordinate
	if dto.LocationLat != nil && dto.LocationLng != nil {
		coordinate, coordErr := kernel.NewCoordinate(*dto.LocationLat, *dto.LocationLng)
		if coordErr != nil {
			return nil, coordErr
		}
		location = &coordinate
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		vehicle,
		dto.Available,
		location,
		dto.LocationReportedAt,
		dto.RatingSum,
		dto.RatingCount,
	)
}
