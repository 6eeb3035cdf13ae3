package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFindNearbyCouriersQuery(t *testing.T) {
	origin, err := kernel.NewCoordinate(40.7128, -74.0060)
	require.NoError(t, err)

	t.Run("should create valid query", func(t *testing.T) {
		query, err := queries.NewFindNearbyCouriersQuery(origin, 5)
		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.InDelta(t, 5.0, query.RadiusKm(), 1e-9)
	})

	t.Run("zero radius means dispatch default", func(t *testing.T) {
		query, err := queries.NewFindNearbyCouriersQuery(origin, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, query.RadiusKm(), 1e-9)
	})

	t.Run("should fail with negative radius", func(t *testing.T) {
		_, err := queries.NewFindNearbyCouriersQuery(origin, -1)
		require.Error(t, err)
	})

	t.Run("should fail with unconstructed origin", func(t *testing.T) {
		_, err := queries.NewFindNearbyCouriersQuery(kernel.Coordinate{}, 5)
		require.Error(t, err)
	})
}

func TestFindNearbyCouriersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.FindNearbyCouriersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrFindNearbyCouriersQueryIsNotConstructed)
}
