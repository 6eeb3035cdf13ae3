package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// RateOrderCommandHandler records a post-delivery rating and propagates it
// to the rated party: a customer's score folds into the courier's rolling
// average inside the same transaction, a courier's score is forwarded to
// the external customer profile service.
type RateOrderCommandHandler struct {
	uowFactory UoWFactory
	profiles   ports.CustomerProfiles
}

// NewRateOrderCommandHandler creates a handler for rating operations.
func NewRateOrderCommandHandler(uowFactory UoWFactory, profiles ports.CustomerProfiles) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
		profiles:   profiles,
	}
}

// Handle processes the rating and returns the updated order.
func (h *RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) (*order.Order, error) {
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

	rating, err := aggregate.Rate(cmd.Actor(), cmd.Score(), cmd.Feedback())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if cmd.Actor().Role() == order.RoleCustomer {
		courierID := aggregate.Courier()
		rated, courierErr := uow.CourierRepository().Get(ctx, *courierID)
		if courierErr != nil {
			return nil, courierErr
		}
		if err = rated.ApplyRating(rating.Score()); err != nil {
			return nil, err
		}
		if err = uow.CourierRepository().Update(ctx, rated); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if cmd.Actor().Role() == order.RoleCourier {
		if err = h.profiles.ApplyRating(ctx, aggregate.CustomerID(), rating.Score()); err != nil {
			return nil, err
		}
	}

	return aggregate, nil
}
