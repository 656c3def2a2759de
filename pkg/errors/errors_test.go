package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrInternal,
		ErrServiceUnavail, ErrPaymentFailed, ErrBadPrice,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("stripe connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "stripe connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", appErr.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "nope", Err: ErrNotFound}
	assert.True(t, errors.Is(appErr, ErrNotFound))
}

// --- Constructor functions ---

func TestNotFound(t *testing.T) {
	err := NotFound("product", "neon-drip-tee")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "product")
	assert.Contains(t, err.Message, "neon-drip-tee")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be a positive integer")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestBadPrice(t *testing.T) {
	err := BadPrice("price-unset")
	assert.Equal(t, "BAD_PRICE", err.Code)
	assert.Contains(t, err.Message, "price-unset")
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrBadPrice))
}

func TestPaymentFailed(t *testing.T) {
	err := PaymentFailed("card declined")
	assert.Equal(t, "PAYMENT_FAILED", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, errors.Is(err, ErrPaymentFailed))
}

func TestServiceUnavailable(t *testing.T) {
	err := ServiceUnavailable("payment provider unreachable")
	assert.Equal(t, "SERVICE_UNAVAILABLE", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
}

// --- HTTPStatus mapping ---

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrPaymentFailed))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrServiceUnavail))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrBadPrice))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything else")))
}

func TestHTTPStatus_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("cart line", "abc"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}
