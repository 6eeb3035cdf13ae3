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

// Expected dispatch outcomes. Callers (the cron job) treat these as quiet
// ticks, not failures.
var (
	// ErrNoPendingOrders is returned when the pending backlog is empty.
	ErrNoPendingOrders = errors.New("no pending orders to dispatch")

	// ErrNoAvailableCouriers is returned when no dispatchable courier is
	// within the search radius of the oldest pending order.
	ErrNoAvailableCouriers = errors.New("no available couriers found")
)

// DispatchOrderCommandHandler performs one automatic matching pass: it
// takes the oldest pending order, ranks the available couriers around its
// pickup point, and claims the order for the best candidate.
//
// A lost race against a manual claim surfaces as order.ErrAlreadyAssigned;
// the next tick simply moves on to the next pending order, which is the
// caller-level retry policy.
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.Dispatcher
	estimator  services.ETAEstimator
	publisher  ports.TrackingPublisher
}

// NewDispatchOrderCommandHandler creates a handler for automatic dispatch
// passes using the given dispatcher configuration.
func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.Dispatcher,
	publisher ports.TrackingPublisher,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		estimator:  services.NewETAEstimator(),
		publisher:  publisher,
	}
}

// Handle performs one matching pass.
func (h *DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetFirstInPendingStatus(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ErrNoPendingOrders
		}
		return err
	}

	available, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	candidates, err := h.dispatcher.RankForPickup(aggregate, available)
	if err != nil {
		if errors.Is(err, services.ErrCourierNotFound) {
			return ErrNoAvailableCouriers
		}
		return err
	}

	winner := candidates[0].Courier
	if err = aggregate.Claim(winner.ID()); err != nil {
		return err
	}

	pickupAt, deliveryAt, err := h.estimator.EstimateForOrder(aggregate, winner, time.Now().UTC())
	if err != nil {
		return err
	}
	if err = aggregate.SetEstimates(pickupAt, deliveryAt); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return order.ErrAlreadyAssigned
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishTrackingUpdated(h.publisher, aggregate, winner)
	return nil
}
