package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

// upstreamErrorBody captures the common {"error": {...}} shape returned by
// the payment and commerce APIs the storefront talks to. Stripe returns
// {"error": {"type": ..., "message": ...}}; our own services return
// {"error": {"code": ..., "message": ...}}.
type upstreamErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the body matches a structured error
// shape, the message is preserved; otherwise a generic error is returned
// with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	var parsed upstreamErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil && parsed.Error != nil {
		return mapUpstreamError(resp.StatusCode, parsed.Error.Message, upstream)
	}

	return fmt.Errorf("%s returned status %d: %s", upstream, resp.StatusCode, string(bodyBytes))
}

// mapUpstreamError translates an upstream HTTP status code and message into
// an AppError that preserves the error semantics.
func mapUpstreamError(status int, message, upstream string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", upstream, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(upstream, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusPaymentRequired, status == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualifiedMsg)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", upstream, status, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
