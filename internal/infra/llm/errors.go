package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a failed backend round-trip.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindConnectionRefused Kind = "connection_refused"
	KindDNS               Kind = "dns_failure"
	KindStatus            Kind = "http_status"
	KindDecode            Kind = "invalid_response"
	KindCanceled          Kind = "canceled"
	KindRequest           Kind = "request_error"
)

// Error is returned by every client call that fails. Callers switch on Kind
// instead of inspecting transport errors themselves.
type Error struct {
	Op         string // "generate" | "healthcheck"
	Kind       Kind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("ollama %s: status %d", e.Op, e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("ollama %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("ollama %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err. Errors that did not come from this
// package are classified from their transport cause.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return classify(err)
}

// IsTimeout reports whether err is a backend timeout.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnectionRefused
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindRequest
}

func wrap(op string, err error) *Error {
	return &Error{Op: op, Kind: classify(err), Err: err}
}
