package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrMissingCredential means no API key was configured.
	ErrMissingCredential = errors.New("API credential not found")
	// ErrServiceUnavailable covers network failures and 5xx responses.
	ErrServiceUnavailable = errors.New("completion service unavailable")
	// ErrRateLimited means the provider rejected the request with 429.
	ErrRateLimited = errors.New("completion service rate limited")
	// ErrInvalidCredentials means the provider rejected the API key.
	ErrInvalidCredentials = errors.New("invalid completion service credentials")
	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("empty completion response")
)

// ServiceError is a provider failure. It unwraps to both its Kind (one of
// the sentinels above, when classified) and the provider's own error.
type ServiceError struct {
	Provider   Provider
	Kind       error
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	if e.Kind == nil || e.Kind == e.Err {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceUnavailable)
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrInvalidCredentials
	case code >= 500:
		return ErrServiceUnavailable
	}
	return nil
}

// classify wraps a provider error. status is the HTTP status when the SDK
// exposed one, 0 otherwise.
func classify(provider Provider, status int, err error) error {
	if err == nil {
		return nil
	}
	if status == 0 && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return &ServiceError{Provider: provider, Err: err}
	}
	kind := kindForStatus(status)
	if kind == nil && status == 0 {
		var netErr net.Error
		if errors.As(err, &netErr) {
			kind = ErrServiceUnavailable
		}
	}
	return &ServiceError{Provider: provider, Kind: kind, StatusCode: status, Err: err}
}

func emptyResponse(provider Provider) error {
	return &ServiceError{Provider: provider, Kind: ErrEmptyResponse, Err: ErrEmptyResponse}
}
