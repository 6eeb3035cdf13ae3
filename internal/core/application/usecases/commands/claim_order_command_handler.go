package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ClaimOrderCommandHandler performs the exclusive claim of a pending order
// by a courier.
//
// The in-memory claim flips the aggregate to assigned, but the real
// arbitration happens at persistence: the repository updates conditionally
// on the loaded version, so of N concurrent claimers exactly one commit
// succeeds and the rest surface order.ErrAlreadyAssigned.
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	estimator  services.ETAEstimator
	publisher  ports.TrackingPublisher
}

// NewClaimOrderCommandHandler creates a handler for claim operations.
func NewClaimOrderCommandHandler(uowFactory UoWFactory, publisher ports.TrackingPublisher) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		estimator:  services.NewETAEstimator(),
		publisher:  publisher,
	}
}

// Handle processes the claim and returns the updated order. ETAs are
// stamped when the courier has a known position; a courier without presence
// can still claim, it just gets no estimates.
func (h *ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
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

	claimer, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.Claim(claimer.ID()); err != nil {
		return nil, err
	}

	if claimer.HasPresence() {
		pickupAt, deliveryAt, etaErr := h.estimator.EstimateForOrder(aggregate, claimer, time.Now().UTC())
		if etaErr != nil {
			return nil, etaErr
		}
		if err = aggregate.SetEstimates(pickupAt, deliveryAt); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return nil, order.ErrAlreadyAssigned
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishTrackingUpdated(h.publisher, aggregate, claimer)
	return aggregate, nil
}
