package ibm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lei/quantum-tracker/internal/provider"
	"github.com/lei/quantum-tracker/pkg/logger"
)

// Adapter implements the Provider interface for the IBM Quantum Runtime
// REST API
type Adapter struct {
	client *Client
	config *Config
	logger *logger.Logger
}

// Config contains IBM Quantum connection settings
type Config struct {
	// Token is the IBM Cloud IAM API key
	Token string
	// InstanceCRN identifies the runtime service instance
	InstanceCRN string
	// Channel selects the access channel, e.g. "ibm_cloud"
	Channel string
	// TokenRefreshMargin refreshes the bearer token this long before expiry
	TokenRefreshMargin time.Duration
}

// NewAdapter creates a new IBM Quantum adapter
func NewAdapter(cfg *Config, log *logger.Logger) (*Adapter, error) {
	if cfg.Token == "" || cfg.InstanceCRN == "" {
		return nil, provider.ErrSessionUnavailable
	}

	tokenManager := NewTokenManager(cfg.Token, cfg.TokenRefreshMargin)
	client := NewClient(cfg.InstanceCRN, tokenManager, log)

	return &Adapter{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

// Jobs implements Provider.Jobs
func (a *Adapter) Jobs(ctx context.Context, limit int, status string) ([]provider.JobHandle, error) {
	a.logger.Debug("vendor: listing jobs", "limit", limit, "status", status)

	raw, err := a.client.ListJobs(ctx, limit, status)
	if err != nil {
		a.logger.Error("vendor: failed to list jobs", "error", err)
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	handles := make([]provider.JobHandle, 0, len(raw))
	for _, r := range raw {
		handles = append(handles, newJobHandle(mapJobFields(r), a.client))
	}

	a.logger.Debug("vendor: jobs listed", "count", len(handles))
	return handles, nil
}

// Job implements Provider.Job
func (a *Adapter) Job(ctx context.Context, id string) (provider.JobHandle, error) {
	a.logger.Debug("vendor: fetching job", "job_id", id)

	raw, err := a.client.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, provider.ErrJobNotFound
		}
		a.logger.Error("vendor: failed to fetch job", "job_id", id, "error", err)
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	return newJobHandle(mapJobFields(raw), a.client), nil
}

// Backends implements Provider.Backends. Per-device status and
// configuration fetches are best effort: a device whose detail calls fail
// still appears, with only its name populated.
func (a *Adapter) Backends(ctx context.Context) ([]provider.BackendHandle, error) {
	names, err := a.client.ListBackendNames(ctx)
	if err != nil {
		a.logger.Error("vendor: failed to list backends", "error", err)
		return nil, fmt.Errorf("list backends: %w", err)
	}

	handles := make([]provider.BackendHandle, 0, len(names))
	for _, name := range names {
		handles = append(handles, a.buildBackendHandle(ctx, name))
	}

	a.logger.Debug("vendor: backends listed", "count", len(handles))
	return handles, nil
}

// Backend implements Provider.Backend
func (a *Adapter) Backend(ctx context.Context, name string) (provider.BackendHandle, error) {
	status, err := a.client.BackendStatus(ctx, name)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, provider.ErrBackendNotFound
		}
		a.logger.Error("vendor: failed to fetch backend status", "backend", name, "error", err)
		return nil, fmt.Errorf("get backend %s: %w", name, err)
	}

	config, err := a.client.BackendConfiguration(ctx, name)
	if err != nil {
		// Status resolved, so the device exists; degrade to status-only fields
		a.logger.Warn("vendor: failed to fetch backend configuration", "backend", name, "error", err)
		config = nil
	}

	return newBackendHandle(name, mapBackendFields(name, status, config), a.client), nil
}

// Submit implements Provider.Submit
func (a *Adapter) Submit(ctx context.Context, req provider.SubmitRequest) (string, error) {
	a.logger.Debug("vendor: submitting job", "program_id", req.ProgramID, "backend", req.Backend)

	jobID, err := a.client.CreateJob(ctx, req.ProgramID, req.Backend, req.Params)
	if err != nil {
		a.logger.Error("vendor: job submission failed", "backend", req.Backend, "error", err)
		return "", fmt.Errorf("submit job: %w", err)
	}

	a.logger.Info("vendor: job submitted", "job_id", jobID, "backend", req.Backend)
	return jobID, nil
}

// HealthCheck verifies vendor connectivity with a cheap listing call
func (a *Adapter) HealthCheck(ctx context.Context) error {
	_, err := a.client.ListBackendNames(ctx)
	return err
}

func (a *Adapter) buildBackendHandle(ctx context.Context, name string) *backendHandle {
	status, err := a.client.BackendStatus(ctx, name)
	if err != nil {
		a.logger.Warn("vendor: failed to fetch backend status", "backend", name, "error", err)
		status = nil
	}

	config, err := a.client.BackendConfiguration(ctx, name)
	if err != nil {
		a.logger.Warn("vendor: failed to fetch backend configuration", "backend", name, "error", err)
		config = nil
	}

	return newBackendHandle(name, mapBackendFields(name, status, config), a.client)
}

var _ provider.Provider = (*Adapter)(nil)
