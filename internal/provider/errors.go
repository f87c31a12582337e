package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionUnavailable indicates no vendor session is configured
	ErrSessionUnavailable = errors.New("quantum service session not available")

	// ErrJobNotFound indicates the job doesn't exist at the vendor
	ErrJobNotFound = errors.New("job not found")

	// ErrBackendNotFound indicates the device name is unknown to the vendor
	ErrBackendNotFound = errors.New("backend not found")

	// ErrUnauthorized indicates vendor authentication failed
	ErrUnauthorized = errors.New("vendor authentication failed")

	// ErrVendorUnavailable indicates the vendor API is temporarily unavailable
	ErrVendorUnavailable = errors.New("vendor temporarily unavailable")
)

// VendorError represents a raw vendor HTTP failure
type VendorError struct {
	Code    int
	Message string
	Err     error
}

func (e *VendorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vendor error %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("vendor error %d: %s", e.Code, e.Message)
}

func (e *VendorError) Unwrap() error {
	return e.Err
}
