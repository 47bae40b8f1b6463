package bankfeed

import (
	"errors"
	"fmt"
)

// Sentinel errors for the aggregator boundary.
var (
	// ErrProviderUnavailable indicates the aggregator could not be reached
	// (network failure, timeout, 5xx). Safe to retry.
	ErrProviderUnavailable = errors.New("bank feed provider unavailable")

	// ErrProviderRejected indicates the aggregator refused the request for
	// this user (ineligible for linking). Not retryable.
	ErrProviderRejected = errors.New("bank feed provider rejected the request")

	// ErrInvalidToken indicates an expired, already-consumed, or revoked
	// token/credential. The user must re-link the institution.
	ErrInvalidToken = errors.New("bank feed token is invalid, expired, or already used")
)

// ProviderError carries the aggregator's error code and whether the failure
// is transient. It wraps one of the sentinel errors above so callers can use
// errors.Is for classification.
type ProviderError struct {
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %s", e.Code)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error represents a transient provider
// failure (network, rate limit, 5xx, timeout) that may succeed on retry.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return errors.Is(err, ErrProviderUnavailable)
}
