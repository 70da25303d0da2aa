package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Remediator is implemented by errors that can name the next command a user
// should run.
type Remediator interface {
	Remediation() string
}

// RemediationFor returns the remediation hint carried anywhere in err's
// chain, or "".
func RemediationFor(err error) string {
	var r Remediator
	if errors.As(err, &r) {
		return r.Remediation()
	}
	return ""
}

// ConfigError reports an invalid configuration key or an unparsable value.
type ConfigError struct {
	Key    string
	Reason string
	Hint   string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// Remediation returns the suggested next command.
func (e *ConfigError) Remediation() string {
	return e.Hint
}

// ProfileError reports a missing or duplicate profile, or an attempt to
// remove the active one.
type ProfileError struct {
	Profile string
	Reason  string
	Hint    string
}

func (e *ProfileError) Error() string {
	return e.Reason
}

// Remediation returns the suggested next command.
func (e *ProfileError) Remediation() string {
	return e.Hint
}

// RequestErrorKind classifies a failed outbound request.
type RequestErrorKind string

const (
	ErrKindConnectionRefused RequestErrorKind = "connection_refused"
	ErrKindTimeout           RequestErrorKind = "timeout"
	ErrKindAPI               RequestErrorKind = "api_error"
	ErrKindNetwork           RequestErrorKind = "network_error"
)

// RequestError is the single error type returned by the request gateway.
// Status and Message are set for ErrKindAPI; Endpoint is the base URL the
// request was sent to.
type RequestError struct {
	Kind     RequestErrorKind
	Status   int
	Message  string
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case ErrKindConnectionRefused:
		return fmt.Sprintf("cannot connect to server at %s", e.Endpoint)
	case ErrKindTimeout:
		return "request timed out"
	case ErrKindAPI:
		return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("network error: %s", e.Message)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Remediation returns the suggested next command for the failure kind.
func (e *RequestError) Remediation() string {
	switch e.Kind {
	case ErrKindConnectionRefused:
		return "Is the backend running? Point the CLI elsewhere with: qbique config set endpoint <url>"
	case ErrKindTimeout:
		return "Try increasing the timeout with: qbique config set timeout 60000"
	case ErrKindAPI:
		if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
			return "Authenticate with: qbique auth login --api-key <key>"
		}
		return ""
	default:
		return "Check your network connection and run: qbique health"
	}
}

// IsRequestErrorKind reports whether err is a RequestError of the given kind.
func IsRequestErrorKind(err error, kind RequestErrorKind) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == kind
}
