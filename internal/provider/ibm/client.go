package ibm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lei/quantum-tracker/pkg/logger"
)

const (
	defaultBaseURL = "https://quantum.cloud.ibm.com/api/v1"
	euDeBaseURL    = "https://eu-de.quantum.cloud.ibm.com/api/v1"

	// apiVersion pins the vendor API date header
	apiVersion = "2021-10-01"
)

// Client handles HTTP communication with the IBM Quantum Runtime REST API
type Client struct {
	baseURL      string
	instanceCRN  string
	tokenManager *TokenManager
	httpClient   *http.Client
	logger       *logger.Logger
}

// NewClient creates a new runtime API client. The base URL is derived
// from the instance CRN region.
func NewClient(instanceCRN string, tokenManager *TokenManager, log *logger.Logger) *Client {
	baseURL := defaultBaseURL
	if strings.Contains(instanceCRN, "eu-de") {
		baseURL = euDeBaseURL
	}

	return &Client{
		baseURL:      baseURL,
		instanceCRN:  instanceCRN,
		tokenManager: tokenManager,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       log,
	}
}

// doRequest performs an authenticated request with a single retry on 401
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	c.logger.Debug("vendor: http request", "method", method, "path", path)

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		c.logger.Error("vendor: failed to get token", "error", err)
		return nil, fmt.Errorf("get token: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("vendor: http request failed", "method", method, "path", path, "error", err)
		return nil, err
	}

	c.logger.Debug("vendor: http response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.logger.Info("vendor: received 401, invalidating token and retrying", "path", path)
		c.tokenManager.InvalidateToken()

		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh token: %w", err)
		}

		req, err = c.newRequest(ctx, method, path, body, token)
		if err != nil {
			return nil, err
		}
		resp, err = c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("vendor: retry request failed", "path", path, "error", err)
			return nil, err
		}
	}

	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, token string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Service-CRN", c.instanceCRN)
	req.Header.Set("IBM-API-Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// getJSON performs a GET and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListJobs fetches recent jobs, newest first. status is a vendor status
// token used as a server-side filter; empty means no filter.
func (c *Client) ListJobs(ctx context.Context, limit int, status string) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if status != "" {
		q.Set("status", status)
	}

	var payload struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := c.getJSON(ctx, "/jobs?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Jobs, nil
}

// GetJob fetches one job by id
func (c *Client) GetJob(ctx context.Context, jobID string) (map[string]any, error) {
	var job map[string]any
	if err := c.getJSON(ctx, "/jobs/"+url.PathEscape(jobID), &job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJobResults fetches the result payload of a finished job. This is the
// slow blocking call the projector only issues for completed jobs.
func (c *Client) GetJobResults(ctx context.Context, jobID string) (any, error) {
	resp, err := c.doRequest(ctx, "GET", "/jobs/"+url.PathEscape(jobID)+"/results", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	// Results may be a counts mapping or an opaque structure; fall back
	// to the raw text when it is not JSON
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body), nil
	}
	return decoded, nil
}

// ListBackendNames fetches the device names visible to the session
func (c *Client) ListBackendNames(ctx context.Context) ([]string, error) {
	var payload struct {
		Devices []string `json:"devices"`
	}
	if err := c.getJSON(ctx, "/backends", &payload); err != nil {
		return nil, err
	}
	return payload.Devices, nil
}

// BackendStatus fetches the live status of a device
func (c *Client) BackendStatus(ctx context.Context, name string) (map[string]any, error) {
	var status map[string]any
	if err := c.getJSON(ctx, "/backends/"+url.PathEscape(name)+"/status", &status); err != nil {
		return nil, err
	}
	return status, nil
}

// BackendConfiguration fetches the static configuration of a device
func (c *Client) BackendConfiguration(ctx context.Context, name string) (map[string]any, error) {
	var config map[string]any
	if err := c.getJSON(ctx, "/backends/"+url.PathEscape(name)+"/configuration", &config); err != nil {
		return nil, err
	}
	return config, nil
}

// BackendProperties fetches the calibration snapshot of a device.
// Simulators and some devices report none; that surfaces as (nil, nil).
func (c *Client) BackendProperties(ctx context.Context, name string) (map[string]any, error) {
	resp, err := c.doRequest(ctx, "GET", "/backends/"+url.PathEscape(name)+"/properties", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var props map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if len(props) == 0 {
		return nil, nil
	}
	return props, nil
}

// CreateJob submits a runtime program and returns the new job id
func (c *Client) CreateJob(ctx context.Context, programID, backend string, params map[string]any) (string, error) {
	body, err := json.Marshal(map[string]any{
		"program_id": programID,
		"backend":    backend,
		"params":     params,
	})
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", "/jobs", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", parseError(resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode submission response: %w", err)
	}
	return created.ID, nil
}
