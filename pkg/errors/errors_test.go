package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError tests error construction and wrapping
func TestAppError(t *testing.T) {
	t.Run("error string includes code and message", func(t *testing.T) {
		err := ErrBadRequest("body is not valid JSON")
		assert.Equal(t, "BAD_REQUEST: body is not valid JSON", err.Error())
	})

	t.Run("wrapped cause is included and unwrappable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrInternal("upstream call failed").Wrap(cause)

		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("details accumulate", func(t *testing.T) {
		err := ErrNoRates("shp_1").WithDetail("carrier", "USPS")
		assert.Equal(t, "shp_1", err.Details["shipmentId"])
		assert.Equal(t, "USPS", err.Details["carrier"])
	})
}

// TestConstructors tests status codes on each constructor
func TestConstructors(t *testing.T) {
	tests := []struct {
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{ErrValidation("bad"), CodeValidationError, http.StatusBadRequest},
		{ErrNotFound("shipment"), CodeNotFound, http.StatusNotFound},
		{ErrBadRequest("bad"), CodeBadRequest, http.StatusBadRequest},
		{ErrInternal(""), CodeInternalError, http.StatusInternalServerError},
		{ErrServiceUnavailable("rate-api"), CodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrTimeout("create_shipment"), CodeTimeout, http.StatusGatewayTimeout},
		{ErrNoRates("shp_1"), CodeNoRatesAvailable, http.StatusBadGateway},
		{ErrClassification("widget"), CodeClassificationFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantCode, tt.err.Code)
		assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
	}
}

// TestMapDomainError tests message-based mapping of plain errors
func TestMapDomainError(t *testing.T) {
	t.Run("nil maps to nil", func(t *testing.T) {
		assert.Nil(t, MapDomainError(nil))
	})

	t.Run("existing AppError passes through", func(t *testing.T) {
		original := ErrNoRates("shp_1")
		mapped := MapDomainError(fmt.Errorf("wrapped: %w", original))
		assert.Same(t, original, mapped)
	})

	tests := []struct {
		message  string
		wantCode string
	}{
		{"shipment not found", CodeNotFound},
		{"invalid country code", CodeValidationError},
		{"field is required", CodeValidationError},
		{"request timeout exceeded", CodeTimeout},
		{"service unavailable", CodeServiceUnavailable},
		{"something else broke", CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			mapped := MapDomainError(errors.New(tt.message))
			require.NotNil(t, mapped)
			assert.Equal(t, tt.wantCode, mapped.Code)
		})
	}
}
