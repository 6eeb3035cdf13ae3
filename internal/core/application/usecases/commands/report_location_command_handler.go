package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ReportLocationCommandHandler processes courier position reports.
//
// Only the assigned courier may report against an order. The courier's
// presence is always refreshed; a tracking event is appended only while the
// assignment is active, so reports arriving after delivery still keep the
// courier dispatchable without touching the closed order's history.
type ReportLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
}

// NewReportLocationCommandHandler creates a handler for position reports.
func NewReportLocationCommandHandler(uowFactory UoWFactory, publisher ports.TrackingPublisher) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the position report and returns the updated order.
func (h *ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) (*order.Order, error) {
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

	aggregate, err := uow.OrderRepository().GetByNumber(ctx, cmd.OrderNumber())
	if err != nil {
		return nil, err
	}

	assignedID := aggregate.Courier()
	if assignedID == nil || !assignedID.IsEqual(cmd.CourierID()) {
		return nil, order.NewUnauthorizedError(order.RoleCourier, order.ActionReportLocation)
	}

	reporter, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err = reporter.ReportLocation(cmd.Location(), now); err != nil {
		return nil, err
	}
	if err = uow.CourierRepository().Update(ctx, reporter); err != nil {
		return nil, err
	}

	active := aggregate.IsActive()
	if active {
		if err = aggregate.RecordLocation(cmd.Location(), ""); err != nil {
			return nil, err
		}
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if active {
		publishLocationUpdated(h.publisher, aggregate, reporter, cmd.Location(), now)
	}

	return aggregate, nil
}
