package dify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ymdk/docrenamer/internal/infrastructure/resilience"
)

// CallTimeoutError marks expiry of one call's own time allowance while the
// caller's context was still live. Unlike caller expiry it is transient:
// the next attempt starts with a fresh allowance.
type CallTimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e *CallTimeoutError) Error() string {
	return fmt.Sprintf("dify %s gave no answer within %s", e.Operation, e.Limit)
}

// Unwrap keeps errors.Is(err, context.DeadlineExceeded) true, so exhausted
// retries still surface as a timeout upstream.
func (e *CallTimeoutError) Unwrap() error { return context.DeadlineExceeded }

// asCallTimeout converts per-call deadline expiry into a CallTimeoutError.
// Expiry inherited from the caller passes through untouched.
func asCallTimeout(operation string, caller context.Context, limit time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && caller.Err() == nil {
		return &CallTimeoutError{Operation: operation, Limit: limit}
	}
	return err
}

// HTTPStatusError carries the remote status and a bounded body excerpt for
// diagnostics; raw transport failures never reach API responses directly.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "dify status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("dify %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("dify %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// ClassifyError drives the retry/breaker policy. A per-call timeout is
// transient and retried; deadline expiry inherited from the caller is not,
// the per-file budget owns that decision. Transport errors and
// throttling/5xx statuses are transient.
func ClassifyError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	var callTimeout *CallTimeoutError
	if errors.As(err, &callTimeout) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
