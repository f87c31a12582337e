package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lei/quantum-tracker/internal/models"
	"github.com/lei/quantum-tracker/internal/provider"
	"github.com/lei/quantum-tracker/internal/service"
)

// sessionUnavailableMsg is the fixed error body served whenever no vendor
// session is configured. The frontend matches on this text.
const sessionUnavailableMsg = "IBM Quantum service not available. Please configure credentials in .env file."

// Handlers contains HTTP handler functions
type Handlers struct {
	service *service.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{service: svc}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.HealthCheck(r.Context()))
}

// CreateJob handles POST /api/jobs
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	logger := GetLogger(r.Context())

	var sub models.JobSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		if logger != nil {
			logger.Warn("invalid submission body", "error", err)
		}
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if logger != nil {
		logger.Info("received job submission", "program_id", sub.ProgramID, "backend", sub.Backend)
	}

	jobID, err := h.service.SubmitJob(r.Context(), sub)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"status": models.StatusQueued,
	})
}

// ListJobs handles GET /api/jobs
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	lite := parseBoolParam(r.URL.Query().Get("lite"))

	jobs, err := h.service.ListJobs(r.Context(), limit, status, lite)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /api/jobs/{job_id}
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		// Any fetch failure for a named job reads as not-found, matching
		// the dashboard's contract for this route
		if !errors.Is(err, provider.ErrSessionUnavailable) {
			err = fmt.Errorf("%w: %v", provider.ErrJobNotFound, err)
		}
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListBackends handles GET /api/backends
func (h *Handlers) ListBackends(w http.ResponseWriter, r *http.Request) {
	detailed := parseBoolParam(r.URL.Query().Get("detailed"))

	backends, err := h.service.ListBackends(r.Context(), detailed)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, backends)
}

// GetBackend handles GET /api/backends/{name}
func (h *Handlers) GetBackend(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	backend, err := h.service.GetBackend(r.Context(), name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, backend)
}

// GetMetrics handles GET /api/metrics
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Metrics(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the flat JSON error body the dashboard expects
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger := GetLogger(r.Context())
	requestID := GetRequestID(r.Context())

	if logger != nil {
		logger.Error("returning error response",
			"status", status,
			"message", message,
			"request_id", requestID)
	}

	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	respondJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps service errors to HTTP responses.
// Session-unavailable is checked first; per-field and per-record failures
// never reach here, they degrade inside the projectors.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := GetLogger(r.Context())
	if logger != nil {
		logger.Error("service error occurred",
			"error", err.Error(),
			"error_type", fmt.Sprintf("%T", err))
	}

	switch {
	case errors.Is(err, provider.ErrSessionUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, sessionUnavailableMsg)
	case errors.Is(err, provider.ErrJobNotFound):
		respondError(w, r, http.StatusNotFound, "job not found")
	case errors.Is(err, provider.ErrBackendNotFound):
		respondError(w, r, http.StatusNotFound, "backend not found")
	default:
		var vendorErr *provider.VendorError
		if errors.As(err, &vendorErr) && logger != nil {
			logger.Error("vendor error details",
				"vendor_code", vendorErr.Code,
				"vendor_message", vendorErr.Message)
		}
		respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}
