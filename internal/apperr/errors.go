// Package apperr holds the error taxonomy shared by services and handlers.
// Handlers decide HTTP status codes with errors.As against these types.
package apperr

import "fmt"

// ValidationError is bad or missing caller input (empty cart, unknown
// product, blank fields). Always reported with its message, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// GatewayError is a failed interaction with the payment provider. Detail
// carries the provider-supplied description when one was returned, so the
// most specific message reaches the caller.
type GatewayError struct {
	Op     string
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("asaas %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("asaas %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// GatewayConflict means the provider refused to cancel a charge it reports
// as already settled. Callers may still proceed with local-only cancellation.
type GatewayConflict struct {
	PaymentID string
	Detail    string
}

func (e *GatewayConflict) Error() string {
	return fmt.Sprintf("asaas charge %s cannot be cancelled: %s", e.PaymentID, e.Detail)
}

// PersistenceError is a failed database write. When it happens after an
// external charge was created it marks the single inconsistency window of
// the checkout flow and is logged separately by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
