package services

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports malformed input. It is never retried.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity
type NotFoundError struct {
	Entity  string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports reservations overlapping the requested window.
// TableIDs lists every conflicting table, not just the first.
type ConflictError struct {
	TableIDs []uint
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.TableIDs))
	for i, id := range e.TableIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("tables busy: %s", strings.Join(ids, ", "))
}

// Policy violation codes, checked in order by the cancellation engine
const (
	PolicyForbidden     = "FORBIDDEN"
	PolicyInvalidState  = "INVALID_STATE"
	PolicyWindowExpired = "WINDOW_EXPIRED"
	PolicyQuotaExceeded = "QUOTA_EXCEEDED"
)

// PolicyViolation reports a cancellation-policy rejection. It is reported to
// the caller and never retried.
type PolicyViolation struct {
	Code    string
	Message string
}

func (e *PolicyViolation) Error() string {
	return e.Message
}

// TransactionFailure wraps a storage-layer abort. The whole operation rolled
// back, so the caller may safely retry it.
type TransactionFailure struct {
	Op  string
	Err error
}

func (e *TransactionFailure) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionFailure) Unwrap() error {
	return e.Err
}
