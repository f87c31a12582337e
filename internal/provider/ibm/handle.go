package ibm

import (
	"context"

	"github.com/lei/quantum-tracker/internal/provider"
)

// jobHandle implements provider.JobHandle over a normalized field map
type jobHandle struct {
	id     string
	fields map[string]any
	client *Client
}

func newJobHandle(fields map[string]any, client *Client) *jobHandle {
	id, _ := fields["id"].(string)
	return &jobHandle{id: id, fields: fields, client: client}
}

func (j *jobHandle) ID() string {
	return j.id
}

func (j *jobHandle) Field(name string) (any, bool) {
	v, ok := j.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (j *jobHandle) Result(ctx context.Context) (any, error) {
	return j.client.GetJobResults(ctx, j.id)
}

// backendHandle implements provider.BackendHandle over the merged
// status + configuration field map
type backendHandle struct {
	name   string
	fields map[string]any
	client *Client
}

func newBackendHandle(name string, fields map[string]any, client *Client) *backendHandle {
	return &backendHandle{name: name, fields: fields, client: client}
}

func (b *backendHandle) Name() string {
	return b.name
}

func (b *backendHandle) Field(name string) (any, bool) {
	v, ok := b.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (b *backendHandle) Properties(ctx context.Context) (map[string]any, error) {
	return b.client.BackendProperties(ctx, b.name)
}

var (
	_ provider.JobHandle     = (*jobHandle)(nil)
	_ provider.BackendHandle = (*backendHandle)(nil)
)
