package meta

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned for malformed account ids, levels or dates.
var ErrInvalidQuery = errors.New("invalid insights query")

// Graph error codes that mean the token must be replaced.
const (
	codeInvalidToken    = 190
	codeSessionExpired  = 102
	codePermission      = 10
	codePermissionFirst = 200
	codePermissionLast  = 299
)

// CredentialError means the access token is expired, invalid or lacks the
// scope needed. It is never retried; the account must be reconnected.
type CredentialError struct {
	StatusCode int
	Code       int
	Reason     string
	Message    string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("meta credential error (%s, code %d): %s", e.Reason, e.Code, e.Message)
}

// PlatformUnavailableError covers network failures, timeouts and non-auth
// API errors. Callers may retry with backoff.
type PlatformUnavailableError struct {
	StatusCode int
	Code       int
	Message    string
	Timeout    bool
	Err        error
}

func (e *PlatformUnavailableError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("meta platform unavailable: timeout: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("meta platform unavailable: %v", e.Err)
	default:
		return fmt.Sprintf("meta platform unavailable (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
}

func (e *PlatformUnavailableError) Unwrap() error { return e.Err }

// IsCredentialError reports whether err wraps a *CredentialError.
func IsCredentialError(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}

// IsPlatformUnavailable reports whether err wraps a *PlatformUnavailableError.
func IsPlatformUnavailable(err error) bool {
	var pe *PlatformUnavailableError
	return errors.As(err, &pe)
}

// classify maps an HTTP status and Graph error body to a typed error.
func classify(status int, apiErr *graphError) error {
	code, msg := 0, ""
	if apiErr != nil {
		code, msg = apiErr.Code, apiErr.Message
	}
	switch {
	case code == codeInvalidToken || code == codeSessionExpired:
		return &CredentialError{StatusCode: status, Code: code, Reason: "expired_or_invalid", Message: msg}
	case status == 401:
		return &CredentialError{StatusCode: status, Code: code, Reason: "unauthorized", Message: msg}
	case status == 403 || code == codePermission || (code >= codePermissionFirst && code <= codePermissionLast):
		return &CredentialError{StatusCode: status, Code: code, Reason: "permission_denied", Message: msg}
	}
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", status)
	}
	return &PlatformUnavailableError{StatusCode: status, Code: code, Message: msg}
}
