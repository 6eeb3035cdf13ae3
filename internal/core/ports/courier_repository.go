// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, and the tracking event
// publisher. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate:
	// availability, presence and the rating accumulator.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves all couriers that are currently available
	// and have reported a position. The dispatcher narrows this set down
	// by radius and ranks it.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
