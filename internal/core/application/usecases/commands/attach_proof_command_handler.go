package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AttachProofCommandHandler appends a proof-of-delivery reference to an
// order and announces it on the tracking bus.
type AttachProofCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
}

// NewAttachProofCommandHandler creates a handler for proof attachments.
func NewAttachProofCommandHandler(uowFactory UoWFactory, publisher ports.TrackingPublisher) AttachProofCommandHandler {
	return AttachProofCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the proof attachment and returns the updated order.
func (h *AttachProofCommandHandler) Handle(ctx context.Context, cmd AttachProofCommand) (*order.Order, error) {
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

	if err = aggregate.Authorize(cmd.Actor(), order.ActionAttachProof); err != nil {
		return nil, err
	}

	if err = aggregate.AttachProof(cmd.Image()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	var assigned *courier.Courier
	if courierID := aggregate.Courier(); courierID != nil {
		assigned, _ = uow.CourierRepository().Get(ctx, *courierID)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishProofUploaded(h.publisher, aggregate, assigned, cmd.Image())
	return aggregate, nil
}
