package provider

import "context"

// Provider abstracts the quantum cloud vendor session.
// It hands out opaque job/backend handles; all field access on a handle
// goes through the guarded Field accessor so one missing or renamed
// vendor field degrades a single output field instead of the whole record.
type Provider interface {
	// Jobs lists recent jobs, newest first, optionally filtered by a
	// vendor-side status token
	Jobs(ctx context.Context, limit int, status string) ([]JobHandle, error)

	// Job fetches a single job by id
	Job(ctx context.Context, id string) (JobHandle, error)

	// Backends lists the devices visible to the session
	Backends(ctx context.Context) ([]BackendHandle, error)

	// Backend fetches a single device by name
	Backend(ctx context.Context, name string) (BackendHandle, error)

	// Submit forwards a program to the vendor and returns the new job id
	Submit(ctx context.Context, req SubmitRequest) (string, error)
}

// JobHandle is an opaque vendor job
type JobHandle interface {
	// ID returns the vendor job identifier
	ID() string

	// Field reads a named attribute off the handle. The second return
	// is false when the attribute is absent or has an unusable shape.
	Field(name string) (any, bool)

	// Result blocks until the job result is available. Callers must only
	// invoke it for completed jobs; it may take seconds.
	Result(ctx context.Context) (any, error)
}

// BackendHandle is an opaque vendor compute device
type BackendHandle interface {
	// Name returns the device name
	Name() string

	// Field reads a named status or configuration attribute
	Field(name string) (any, bool)

	// Properties fetches the calibration snapshot. A nil map with nil
	// error means the device reports no calibration data.
	Properties(ctx context.Context) (map[string]any, error)
}

// SubmitRequest describes a program submission
type SubmitRequest struct {
	ProgramID string
	Backend   string
	Params    map[string]any
}
