package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lei/quantum-tracker/internal/circuit"
	"github.com/lei/quantum-tracker/internal/models"
	"github.com/lei/quantum-tracker/internal/projector"
	"github.com/lei/quantum-tracker/internal/provider"
	"github.com/lei/quantum-tracker/pkg/logger"
)

const (
	// projectionLimit bounds concurrent per-job projections in one request
	projectionLimit = 8

	// metricsJobLimit is how many recent jobs feed the metrics summary
	metricsJobLimit = 100

	defaultProgramID = "sampler"
)

// Service coordinates business logic between the API and provider layers.
// A nil provider means no vendor session is configured; every operation
// then fails with ErrSessionUnavailable.
type Service struct {
	provider provider.Provider
	logger   *logger.Logger
}

// NewService creates a new service instance. prov may be nil when vendor
// credentials are absent.
func NewService(prov provider.Provider, log *logger.Logger) *Service {
	return &Service{
		provider: prov,
		logger:   log,
	}
}

// SessionAvailable reports whether a vendor session is configured
func (s *Service) SessionAvailable() bool {
	return s.provider != nil
}

func (s *Service) checkSession() error {
	if s.provider == nil {
		return provider.ErrSessionUnavailable
	}
	return nil
}

// getLogger retrieves the request-scoped logger from context or falls
// back to the service logger
func (s *Service) getLogger(ctx context.Context) *logger.Logger {
	if ctxLogger := logger.FromContext(ctx); ctxLogger != nil {
		return ctxLogger
	}
	return s.logger
}

// SubmitJob forwards the fixed demonstration circuit to the named (or
// default) backend and returns the new job id
func (s *Service) SubmitJob(ctx context.Context, sub models.JobSubmission) (string, error) {
	if err := s.checkSession(); err != nil {
		return "", err
	}
	logger := s.getLogger(ctx)

	programID := sub.ProgramID
	if programID == "" {
		programID = defaultProgramID
	}
	backend := sub.Backend
	if backend == "" {
		backend = circuit.DefaultBackend
	}

	logger.Debug("service: submitting job", "program_id", programID, "backend", backend)

	jobID, err := s.provider.Submit(ctx, provider.SubmitRequest{
		ProgramID: programID,
		Backend:   backend,
		Params:    circuit.BellProgram(sub.Params),
	})
	if err != nil {
		logger.Error("service: job submission failed", "backend", backend, "error", err)
		return "", err
	}

	logger.Info("service: job submitted", "job_id", jobID, "backend", backend)
	return jobID, nil
}

// ListJobs projects the most recent vendor jobs. Projections fan out
// concurrently but the response preserves the vendor's job order.
func (s *Service) ListJobs(ctx context.Context, limit int, status string, lite bool) ([]models.JobRecord, error) {
	if err := s.checkSession(); err != nil {
		return nil, err
	}
	logger := s.getLogger(ctx)

	logger.Debug("service: listing jobs", "limit", limit, "status", status, "lite", lite)

	handles, err := s.provider.Jobs(ctx, limit, status)
	if err != nil {
		logger.Error("service: failed to list jobs", "error", err)
		return nil, err
	}

	records, err := s.projectJobs(ctx, handles, lite)
	if err != nil {
		return nil, err
	}

	logger.Info("service: jobs listed", "count", len(records), "lite", lite)
	return records, nil
}

// GetJob projects one vendor job in full
func (s *Service) GetJob(ctx context.Context, jobID string) (models.JobRecord, error) {
	if err := s.checkSession(); err != nil {
		return models.JobRecord{}, err
	}
	logger := s.getLogger(ctx)

	logger.Debug("service: fetching job", "job_id", jobID)

	handle, err := s.provider.Job(ctx, jobID)
	if err != nil {
		logger.Error("service: failed to fetch job", "job_id", jobID, "error", err)
		return models.JobRecord{}, err
	}

	record := projector.ProjectJob(ctx, handle, false)
	logger.Debug("service: job projected", "job_id", jobID, "status", record.Status)
	return record, nil
}

// ListBackends projects all visible devices
func (s *Service) ListBackends(ctx context.Context, detailed bool) ([]models.BackendRecord, error) {
	if err := s.checkSession(); err != nil {
		return nil, err
	}
	logger := s.getLogger(ctx)

	logger.Debug("service: listing backends", "detailed", detailed)

	handles, err := s.provider.Backends(ctx)
	if err != nil {
		logger.Error("service: failed to list backends", "error", err)
		return nil, err
	}

	records := make([]models.BackendRecord, 0, len(handles))
	for _, h := range handles {
		records = append(records, projector.ProjectBackend(ctx, h, detailed))
	}

	logger.Info("service: backends listed", "count", len(records))
	return records, nil
}

// GetBackend projects one device in detail, calibration included
func (s *Service) GetBackend(ctx context.Context, name string) (models.BackendRecord, error) {
	if err := s.checkSession(); err != nil {
		return models.BackendRecord{}, err
	}
	logger := s.getLogger(ctx)

	logger.Debug("service: fetching backend", "backend", name)

	handle, err := s.provider.Backend(ctx, name)
	if err != nil {
		logger.Error("service: failed to fetch backend", "backend", name, "error", err)
		return models.BackendRecord{}, err
	}

	return projector.ProjectBackend(ctx, handle, true), nil
}

// Metrics aggregates lite projections of the visible jobs into the
// dashboard summary
func (s *Service) Metrics(ctx context.Context) (models.MetricsSummary, error) {
	if err := s.checkSession(); err != nil {
		return models.MetricsSummary{}, err
	}
	logger := s.getLogger(ctx)

	handles, err := s.provider.Jobs(ctx, metricsJobLimit, "")
	if err != nil {
		logger.Error("service: failed to list jobs for metrics", "error", err)
		return models.MetricsSummary{}, err
	}

	records, err := s.projectJobs(ctx, handles, true)
	if err != nil {
		return models.MetricsSummary{}, err
	}

	summary := projector.AggregateMetrics(records)
	logger.Info("service: metrics computed",
		"total_jobs", summary.TotalJobs,
		"live_jobs", summary.LiveJobs,
		"success_rate", summary.SuccessRate)
	return summary, nil
}

// projectJobs maps handles to records with bounded concurrency, writing
// each result into its input position so vendor order is preserved.
// Individual projections never fail; only context cancellation aborts.
func (s *Service) projectJobs(ctx context.Context, handles []provider.JobHandle, lite bool) ([]models.JobRecord, error) {
	records := make([]models.JobRecord, len(handles))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(projectionLimit)

	for i, h := range handles {
		i, h := i, h
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			records[i] = projector.ProjectJob(gCtx, h, lite)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// healthChecker is implemented by providers that can probe connectivity
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheck reports service and provider health
func (s *Service) HealthCheck(ctx context.Context) map[string]any {
	logger := s.getLogger(ctx)

	health := map[string]any{
		"status":  "healthy",
		"service": "quantum-tracker-gateway",
		"checks":  map[string]any{},
	}
	checks := health["checks"].(map[string]any)

	if s.provider == nil {
		checks["session"] = map[string]any{
			"status": "unavailable",
			"error":  "IBM Quantum credentials not configured",
		}
		health["status"] = "degraded"
		return health
	}

	hc, ok := s.provider.(healthChecker)
	if !ok {
		checks["session"] = map[string]any{"status": "healthy"}
		return health
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := hc.HealthCheck(healthCtx); err != nil {
		logger.Warn("provider health check failed", "error", err)
		checks["session"] = map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		health["status"] = "degraded"
	} else {
		checks["session"] = map[string]any{
			"status":   "healthy",
			"provider": "ibm_quantum",
		}
	}

	return health
}
