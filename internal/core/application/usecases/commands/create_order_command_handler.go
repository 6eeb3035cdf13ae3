package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// numberRetryAttempts bounds order-number regeneration on uniqueness
// conflicts. Collisions need two orders in the same millisecond bucket with
// the same random suffix, so one retry almost always suffices.
const numberRetryAttempts = 3

// CreateOrderCommandHandler handles order registration: it builds the
// aggregate (which freezes pricing and appends the initial tracking event),
// persists it, and announces the creation on the tracking bus.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.TrackingPublisher
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.TrackingPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order creation command and returns the created
// aggregate. Order-number collisions are retried with a fresh number; each
// attempt runs in its own transaction so a failed insert leaves nothing
// behind.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for range numberRetryAttempts {
		created, err := h.attempt(ctx, cmd)
		if err == nil {
			publishTrackingUpdated(h.publisher, created, nil)
			return created, nil
		}
		if !errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (h *CreateOrderCommandHandler) attempt(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(time.Now()),
		cmd.CustomerID(),
		cmd.Pickup(),
		cmd.Delivery(),
		cmd.Package(),
		cmd.Priority(),
		cmd.PaymentMethod(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
