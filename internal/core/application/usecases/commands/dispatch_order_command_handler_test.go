package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	dispatcher := services.NewDispatcher(services.DefaultSearchRadiusKm)

	newCommand := func(t *testing.T) commands.DispatchOrderCommand {
		t.Helper()
		cmd, err := commands.NewDispatchOrderCommand()
		require.NoError(t, err)
		return cmd
	}

	t.Run("claims the pending order for the closest courier", func(t *testing.T) {
		store := newFakeStore()
		pending := buildPendingOrder(t, kernel.NewUUID())
		require.NoError(t, (&fakeOrderRepository{store: store}).Add(ctx, pending))

		near := buildAvailableCourier(t, "near", 40.7130, -74.0060)
		far := buildAvailableCourier(t, "far", 40.7300, -74.0060)
		courierRepo := &fakeCourierRepository{store: store}
		require.NoError(t, courierRepo.Add(ctx, near))
		require.NoError(t, courierRepo.Add(ctx, far))

		publisher := &recordingPublisher{}
		handler := commands.NewDispatchOrderCommandHandler(store.factory(), dispatcher, publisher)

		require.NoError(t, handler.Handle(ctx, newCommand(t)))

		stored, err := (&fakeOrderRepository{store: store}).Get(ctx, pending.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Assigned, stored.Status())
		require.NotNil(t, stored.Courier())
		assert.True(t, stored.Courier().IsEqual(near.ID()))
		assert.NotNil(t, stored.EstimatedDeliveryAt())
		assert.Len(t, publisher.recorded(), 1)
	})

	t.Run("reports empty backlog", func(t *testing.T) {
		store := newFakeStore()
		handler := commands.NewDispatchOrderCommandHandler(store.factory(), dispatcher, &recordingPublisher{})

		err := handler.Handle(ctx, newCommand(t))

		require.ErrorIs(t, err, commands.ErrNoPendingOrders)
	})

	t.Run("reports no couriers in range", func(t *testing.T) {
		store := newFakeStore()
		pending := buildPendingOrder(t, kernel.NewUUID())
		require.NoError(t, (&fakeOrderRepository{store: store}).Add(ctx, pending))

		// available but roughly 17 km away
		faraway := buildAvailableCourier(t, "faraway", 40.81, -74.0060)
		require.NoError(t, (&fakeCourierRepository{store: store}).Add(ctx, faraway))

		handler := commands.NewDispatchOrderCommandHandler(store.factory(), dispatcher, &recordingPublisher{})

		err := handler.Handle(ctx, newCommand(t))

		require.ErrorIs(t, err, commands.ErrNoAvailableCouriers)

		stored, getErr := (&fakeOrderRepository{store: store}).Get(ctx, pending.ID())
		require.NoError(t, getErr)
		assert.Equal(t, order.Pending, stored.Status())
	})
}
