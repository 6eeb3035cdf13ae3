package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEstimateETAQuery_Valid(t *testing.T) {
	query, err := queries.NewEstimateETAQuery("CR123456789")
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "CR123456789", query.OrderNumber())
}

func TestNewEstimateETAQuery_MalformedNumber(t *testing.T) {
	_, err := queries.NewEstimateETAQuery("ORDER-42")
	require.Error(t, err)
}

func TestEstimateETAQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.EstimateETAQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrEstimateETAQueryIsNotConstructed)
}
