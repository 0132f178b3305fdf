package models

import "fmt"

// ValidationError rejects bad input before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// CredentialError covers homepage scrape failures, surfaced after the
// one-shot retry is exhausted.
type CredentialError struct {
	Msg string
	Err error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// UpstreamError carries a non-2xx status or a malformed search
// response. Body is truncated to the first 200 characters.
type UpstreamError struct {
	Status    int
	Body      string
	Malformed bool
}

func (e *UpstreamError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("malformed upstream response: %s", e.Body)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.Status, e.Body)
}

// AuthFailure reports whether the error should trigger a one-shot
// retry with forced credential refresh.
func (e *UpstreamError) AuthFailure() bool {
	return e.Status == 401 || e.Status == 403
}

// ConfigError covers unsupported config keys and invalid set values.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}
