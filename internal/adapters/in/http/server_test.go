package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	return echo.New().NewContext(request, recorder), recorder
}

func TestDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing order", errs.NewObjectNotFoundError("order", "CR123456789"), http.StatusNotFound},
		{"unauthorized actor", order.ErrUnauthorized, http.StatusForbidden},
		{"lost claim race", order.ErrAlreadyAssigned, http.StatusBadRequest},
		{"invalid transition", order.ErrInvalidTransition, http.StatusBadRequest},
		{"not delivered yet", order.ErrOrderNotDelivered, http.StatusBadRequest},
		{"no active assignment", order.ErrNoActiveAssignment, http.StatusBadRequest},
		{"no presence", courier.ErrNoPresence, http.StatusBadRequest},
		{"duplicate rating", order.ErrAlreadyRated, http.StatusConflict},
		{"stale version", errs.NewVersionIsInvalidErrorWithCause("order"), http.StatusConflict},
		{"duplicate number", errs.NewObjectAlreadyExistsError("order", "CR123456789"), http.StatusConflict},
		{"bad value", errs.NewValueIsInvalidError("score"), http.StatusBadRequest},
		{"unexpected failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, recorder := newTestContext(t, nil)

			require.NoError(t, domainError(ctx, tt.err))
			assert.Equal(t, tt.want, recorder.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestDomainError_InternalFailureIsGeneric(t *testing.T) {
	ctx, recorder := newTestContext(t, nil)

	require.NoError(t, domainError(ctx, assert.AnError))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}

func TestActorFromRequest(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("builds actor from identity headers", func(t *testing.T) {
		ctx, _ := newTestContext(t, map[string]string{
			headerActorID:   id.String(),
			headerActorRole: "courier",
		})

		actor, err := actorFromRequest(ctx)

		require.NoError(t, err)
		assert.True(t, id.IsEqual(actor.ID()))
		assert.Equal(t, order.RoleCourier, actor.Role())
	})

	t.Run("rejects missing id header", func(t *testing.T) {
		ctx, _ := newTestContext(t, map[string]string{headerActorRole: "customer"})

		_, err := actorFromRequest(ctx)
		require.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		ctx, _ := newTestContext(t, map[string]string{
			headerActorID:   id.String(),
			headerActorRole: "admin",
		})

		_, err := actorFromRequest(ctx)
		require.Error(t, err)
	})
}
