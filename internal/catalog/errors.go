package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a catalog failure.
type Kind int

const (
	KindNetworkTimeout Kind = iota + 1
	KindNetworkFailure
	KindHTTPStatus
	KindDecode
	KindNotFound
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindNetworkTimeout:
		return "network timeout"
	case KindNetworkFailure:
		return "network failure"
	case KindHTTPStatus:
		return "http status"
	case KindDecode:
		return "decode"
	case KindNotFound:
		return "not found"
	case KindInvalidCredentials:
		return "invalid credentials"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against an *Error of the same kind.
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
)

// Error is the failure type returned by the client and the stores.
type Error struct {
	Kind   Kind
	Op     string // e.g. "GET /films"
	Status int    // set for KindHTTPStatus
	Err    error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindHTTPStatus:
		msg = fmt.Sprintf("returned status %d", e.Status)
	case KindNotFound:
		msg = "not found"
	case KindInvalidCredentials:
		msg = "invalid credentials"
	default:
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + " " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Status == 0 && t.Err == nil
}

// Message renders a short human-readable description of the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindNetworkTimeout:
		return "Server did not respond in time"
	case KindNetworkFailure:
		return "Server unreachable"
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP error, status %d", e.Status)
	case KindDecode:
		return "Malformed server response"
	case KindNotFound:
		return "Not found"
	case KindInvalidCredentials:
		return "Invalid credentials"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Unknown error"
	}
}

// KindOf returns the kind of err, or zero when err is not a catalog error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// IsNetwork reports whether err is a transient network failure (timeout or
// unreachable server) as opposed to an application error.
func IsNetwork(err error) bool {
	switch KindOf(err) {
	case KindNetworkTimeout, KindNetworkFailure:
		return true
	}
	return false
}

// Message renders err for display. Catalog errors use their own message;
// anything else falls back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return err.Error()
}

func transportError(op string, err error) *Error {
	kind := KindNetworkFailure
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindNetworkTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
