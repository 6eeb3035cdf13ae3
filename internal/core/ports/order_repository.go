package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage. Fails with
	// errs.ObjectAlreadyExistsError when the order number collides with an
	// existing one; callers regenerate the number and retry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using an
	// optimistic version check. Fails with errs.ErrVersionIsInvalid when
	// another writer got there first; for claims that loss means the order
	// was already taken.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order aggregate by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetFirstInPendingStatus retrieves the oldest order still waiting for
	// a courier. Used by the dispatch job to drain the pending backlog.
	GetFirstInPendingStatus(ctx context.Context) (*order.Order, error)

	// GetAllInPendingStatus retrieves all orders waiting for a courier,
	// oldest first. Used by the available-orders feed couriers browse.
	GetAllInPendingStatus(ctx context.Context) ([]*order.Order, error)
}
