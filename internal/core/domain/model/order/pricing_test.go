package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPricing(t *testing.T) {
	// distance of the downtown NYC -> Times Square reference pair
	const referenceKm = 8.4859

	t.Run("standard priority carries no surcharge", func(t *testing.T) {
		pricing, err := order.NewPricing(referenceKm, order.PriorityStandard)

		require.NoError(t, err)
		assert.InDelta(t, 5.00, pricing.BaseFare(), 1e-9)
		assert.InDelta(t, 12.73, pricing.DistanceFare(), 1e-9)
		assert.InDelta(t, 0, pricing.PriorityFare(), 1e-9)
		assert.InDelta(t, 17.73, pricing.Total(), 1e-9)
	})

	t.Run("express adds half the base fare", func(t *testing.T) {
		pricing, err := order.NewPricing(referenceKm, order.PriorityExpress)

		require.NoError(t, err)
		assert.InDelta(t, 2.50, pricing.PriorityFare(), 1e-9)
		assert.InDelta(t, 20.23, pricing.Total(), 1e-9)
	})

	t.Run("urgent adds the full base fare", func(t *testing.T) {
		pricing, err := order.NewPricing(referenceKm, order.PriorityUrgent)

		require.NoError(t, err)
		assert.InDelta(t, 5.00, pricing.PriorityFare(), 1e-9)
		assert.InDelta(t, 22.73, pricing.Total(), 1e-9)
	})

	t.Run("components round to cents before summing", func(t *testing.T) {
		// 1.23456 km * 1.50 = 1.85184, rounds to 1.85
		pricing, err := order.NewPricing(1.23456, order.PriorityStandard)

		require.NoError(t, err)
		assert.InDelta(t, 1.85, pricing.DistanceFare(), 1e-9)
		assert.InDelta(t, 6.85, pricing.Total(), 1e-9)
	})

	t.Run("zero distance is allowed", func(t *testing.T) {
		pricing, err := order.NewPricing(0, order.PriorityStandard)

		require.NoError(t, err)
		assert.InDelta(t, 5.00, pricing.Total(), 1e-9)
	})

	t.Run("should fail with negative distance", func(t *testing.T) {
		_, err := order.NewPricing(-0.1, order.PriorityStandard)

		require.Error(t, err)
	})

	t.Run("should fail with invalid priority", func(t *testing.T) {
		_, err := order.NewPricing(1, order.PriorityUnknown)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var pricing order.Pricing

		require.Error(t, pricing.Validate())
	})
}

func TestRestorePricing(t *testing.T) {
	t.Run("restores stored breakdown verbatim", func(t *testing.T) {
		pricing := order.RestorePricing(5.00, 12.73, 2.50, 20.23)

		require.NoError(t, pricing.Validate())
		assert.InDelta(t, 5.00, pricing.BaseFare(), 1e-9)
		assert.InDelta(t, 12.73, pricing.DistanceFare(), 1e-9)
		assert.InDelta(t, 2.50, pricing.PriorityFare(), 1e-9)
		assert.InDelta(t, 20.23, pricing.Total(), 1e-9)
	})
}
