package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/desertthunder/movieplex/internal/shared"
)

// maxErrorBody bounds the response excerpt kept on an [UpstreamError].
const maxErrorBody = 512

// FailureKind classifies an [UpstreamError].
type FailureKind int

const (
	KindUnavailable FailureKind = iota
	KindNotConfigured
)

func (k FailureKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	default:
		return "unavailable"
	}
}

// UpstreamError describes a failed upstream read after all attempts.
type UpstreamError struct {
	Kind     FailureKind
	Endpoint string
	Attempts int
	Status   int
	Body     string
	Cause    error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s", e.sentinel(), e.Endpoint)
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempt(s)", e.Attempts)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel for the kind and the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Cause}
}

func (e *UpstreamError) sentinel() error {
	if e.Kind == KindNotConfigured {
		return shared.ErrNotConfigured
	}
	return shared.ErrUpstreamUnavailable
}

// truncateBody keeps at most maxErrorBody bytes without splitting a rune.
func truncateBody(b []byte) string {
	if len(b) <= maxErrorBody {
		return string(b)
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
