package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TransitionOrderCommandHandler moves an order along its lifecycle on
// behalf of an actor and announces the change on the tracking bus.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle
// transitions.
func NewTransitionOrderCommandHandler(uowFactory UoWFactory, publisher ports.TrackingPublisher) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the transition and returns the updated order. A version
// conflict on a claim-type transition surfaces as order.ErrAlreadyAssigned;
// other conflicts propagate as errs.ErrVersionIsInvalid.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.Transition(cmd.Actor(), cmd.Target(), cmd.Note(), cmd.Location()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) && cmd.Target() == order.Assigned {
			return nil, order.ErrAlreadyAssigned
		}
		return nil, err
	}

	var assigned *courier.Courier
	if courierID := aggregate.Courier(); courierID != nil {
		// best-effort enrichment for the broadcast payload
		assigned, _ = uow.CourierRepository().Get(ctx, *courierID)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishTrackingUpdated(h.publisher, aggregate, assigned)
	return aggregate, nil
}
