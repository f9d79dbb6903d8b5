package model

import "fmt"

// Kind is the closed error taxonomy from spec §7. Every error that
// crosses a component boundary carries one of these, never a bare string.
type Kind string

const (
	KindTransientNetwork   Kind = "transient_network"
	KindRateLimitHit       Kind = "rate_limit_hit"
	KindQuotaExhausted     Kind = "quota_exhausted"
	KindParseFailure       Kind = "parse_failure"
	KindAdapterFailure     Kind = "adapter_failure"
	KindBackpressure       Kind = "backpressure"
	KindInvariantViolation Kind = "invariant_violation"
	KindLedgerUnavailable  Kind = "ledger_unavailable"
)

// CoreError wraps an underlying error with its taxonomy Kind and the
// component/context it originated from, following the teacher's
// sentinel-error-plus-wrapping-struct idiom (internal/config/errors.go).
type CoreError struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *CoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
}

func (e *CoreError) Unwrap() error { return e.Err }

// NewError builds a CoreError.
func NewError(kind Kind, context string, err error) *CoreError {
	return &CoreError{Kind: kind, Context: context, Err: err}
}

// InvariantError reports a Job that failed Validate(), tagged with
// KindInvariantViolation when wrapped by the Normalizer.
type InvariantError struct {
	Field  string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: field %q: %s", e.Field, e.Reason)
}
