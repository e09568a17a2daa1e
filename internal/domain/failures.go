package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies everything that can go wrong between the
// orchestrator, the tools and the remote platforms.
type FailureKind string

const (
	FailureTransport         FailureKind = "transport"
	FailureRemoteRejection   FailureKind = "remote_rejection"
	FailureMalformedResponse FailureKind = "malformed_response"
	FailureValidation        FailureKind = "validation"
	FailureEscalation        FailureKind = "escalation"
	FailureLoopBudget        FailureKind = "loop_budget"
)

var ErrSessionNotFound = errors.New("session not found")

// Failure carries a kind plus a human-readable detail. Tool functions
// translate transport, remote-rejection and malformed-response errors
// into Failure values instead of letting them escape the turn.
type Failure struct {
	Kind   FailureKind
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error { return f.Err }

func NewFailure(kind FailureKind, detail string, err error) *Failure {
	return &Failure{Kind: kind, Detail: detail, Err: err}
}

func Validationf(format string, args ...any) *Failure {
	return &Failure{Kind: FailureValidation, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the FailureKind from an error chain, defaulting to
// transport for plain errors (timeouts, closed connections).
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureTransport
}

// IsValidation reports whether err is a caller-side contract violation
// raised before any network call.
func IsValidation(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == FailureValidation
}
