package commands_test

import (
	"context"
	"sync"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRating struct {
	customerID kernel.UUID
	score      int
}

type recordingProfiles struct {
	mu      sync.Mutex
	applied []recordedRating
}

func (p *recordingProfiles) ApplyRating(_ context.Context, customerID kernel.UUID, score int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied = append(p.applied, recordedRating{customerID: customerID, score: score})
	return nil
}

func TestRateOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	seedDelivered := func(t *testing.T) (*fakeStore, *order.Order, *courier.Courier, order.Actor, order.Actor) {
		t.Helper()
		store := newFakeStore()
		customerID := kernel.NewUUID()
		pending := buildPendingOrder(t, customerID)
		require.NoError(t, (&fakeOrderRepository{store: store}).Add(ctx, pending))

		claimer := buildAvailableCourier(t, "Sam Chen", 40.7140, -74.0050)
		require.NoError(t, (&fakeCourierRepository{store: store}).Add(ctx, claimer))

		claimHandler := commands.NewClaimOrderCommandHandler(store.factory(), &recordingPublisher{})
		claimCmd, err := commands.NewClaimOrderCommand(pending.ID(), claimer.ID())
		require.NoError(t, err)
		_, err = claimHandler.Handle(ctx, claimCmd)
		require.NoError(t, err)

		courierActor, err := order.NewActor(claimer.ID(), order.RoleCourier)
		require.NoError(t, err)
		customerActor, err := order.NewActor(customerID, order.RoleCustomer)
		require.NoError(t, err)

		transitionHandler := commands.NewTransitionOrderCommandHandler(store.factory(), &recordingPublisher{})
		var delivered *order.Order
		for _, target := range []order.Status{order.PickedUp, order.InTransit, order.Delivered} {
			cmd, cmdErr := commands.NewTransitionOrderCommand(pending.ID(), courierActor, target, "", nil)
			require.NoError(t, cmdErr)
			delivered, err = transitionHandler.Handle(ctx, cmd)
			require.NoError(t, err)
		}

		return store, delivered, claimer, courierActor, customerActor
	}

	t.Run("customer rating folds into the courier aggregate", func(t *testing.T) {
		store, delivered, claimer, _, customerActor := seedDelivered(t)
		profiles := &recordingProfiles{}
		handler := commands.NewRateOrderCommandHandler(store.factory(), profiles)

		cmd, err := commands.NewRateOrderCommand(delivered.ID(), customerActor, 5, "fast and careful")
		require.NoError(t, err)

		rated, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, rated.CourierRating())
		assert.Equal(t, 5, rated.CourierRating().Score())
		assert.Equal(t, "fast and careful", rated.CourierRating().Feedback())

		stored, err := (&fakeCourierRepository{store: store}).Get(ctx, claimer.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, stored.RatingCount())
		assert.InDelta(t, 5.0, stored.AverageRating(), 1e-9)

		assert.Empty(t, profiles.applied)
	})

	t.Run("courier rating is forwarded to the customer profile", func(t *testing.T) {
		store, delivered, claimer, courierActor, _ := seedDelivered(t)
		profiles := &recordingProfiles{}
		handler := commands.NewRateOrderCommandHandler(store.factory(), profiles)

		cmd, err := commands.NewRateOrderCommand(delivered.ID(), courierActor, 4, "easy handoff")
		require.NoError(t, err)

		rated, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, rated.CustomerRating())
		assert.Equal(t, 4, rated.CustomerRating().Score())

		require.Len(t, profiles.applied, 1)
		assert.True(t, profiles.applied[0].customerID.IsEqual(delivered.CustomerID()))
		assert.Equal(t, 4, profiles.applied[0].score)

		stored, err := (&fakeCourierRepository{store: store}).Get(ctx, claimer.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, stored.RatingCount())
	})

	t.Run("second rating by the same party is rejected", func(t *testing.T) {
		store, delivered, _, _, customerActor := seedDelivered(t)
		handler := commands.NewRateOrderCommandHandler(store.factory(), &recordingProfiles{})

		first, err := commands.NewRateOrderCommand(delivered.ID(), customerActor, 5, "")
		require.NoError(t, err)
		_, err = handler.Handle(ctx, first)
		require.NoError(t, err)

		second, err := commands.NewRateOrderCommand(delivered.ID(), customerActor, 2, "changed my mind")
		require.NoError(t, err)
		_, err = handler.Handle(ctx, second)

		require.ErrorIs(t, err, order.ErrAlreadyRated)
	})

	t.Run("undelivered order cannot be rated", func(t *testing.T) {
		store := newFakeStore()
		customerID := kernel.NewUUID()
		pending := buildPendingOrder(t, customerID)
		require.NoError(t, (&fakeOrderRepository{store: store}).Add(ctx, pending))

		customerActor, err := order.NewActor(customerID, order.RoleCustomer)
		require.NoError(t, err)

		handler := commands.NewRateOrderCommandHandler(store.factory(), &recordingProfiles{})
		cmd, err := commands.NewRateOrderCommand(pending.ID(), customerActor, 5, "")
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrOrderNotDelivered)
	})
}
