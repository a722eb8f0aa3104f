package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	// KindNetwork is a transport failure with no HTTP status. Never logs out.
	KindNetwork Kind = "network"
	// KindRefreshEndpointAuth is a 401 from the refresh endpoint itself.
	KindRefreshEndpointAuth Kind = "refresh_endpoint_auth"
	// KindRefreshFailed is any other refresh failure.
	KindRefreshFailed Kind = "refresh_failed"
	// KindBusiness is a 401/403 the Policy recognises as a domain rule
	// rejection. The session is left alone.
	KindBusiness Kind = "business"
	// KindUnrecoverableAuth is any other 401/403. The session has been ended.
	KindUnrecoverableAuth Kind = "unrecoverable_auth"
	// KindPassthrough is any other non-2xx response.
	KindPassthrough Kind = "passthrough"
)

var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrLoggedOut means the session is gone and the user has to sign in
	// again. Callers treat it as "navigated away" rather than as a failure to
	// display.
	ErrLoggedOut = errors.New("session ended")
)

// Error is returned for every failed call made through a Client.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("[apiclient]")
	if e.Method != "" || e.Path != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " status %d", e.Status)
	}
	switch {
	case e.Message != "":
		fmt.Fprintf(&b, ": %s", e.Message)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	default:
		fmt.Fprintf(&b, ": %s", e.Kind)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Kind == kind
}

// IsSessionEnded reports whether err means the user has been logged out, so
// the only sensible reaction is to send them back to the login page.
func IsSessionEnded(err error) bool {
	if errors.Is(err, ErrLoggedOut) || errors.Is(err, ErrNoRefreshToken) {
		return true
	}
	return IsKind(err, KindRefreshEndpointAuth) || IsKind(err, KindRefreshFailed) || IsKind(err, KindUnrecoverableAuth)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Status
	}
	return 0
}

// MessageOf returns the backend message carried by err, falling back to the
// error text.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	return err.Error()
}

func kindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindPassthrough
}
