package ibm

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/lei/quantum-tracker/internal/provider"
)

// errNotFound is translated into the job/backend specific sentinel by the
// adapter, which knows what it was fetching
var errNotFound = errors.New("not found")

// parseError converts vendor HTTP error responses to provider errors
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return provider.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return provider.ErrVendorUnavailable
	default:
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}

		if json.Unmarshal(body, &errResp) == nil {
			msg := errResp.Error
			if msg == "" {
				msg = errResp.Message
			}
			if msg != "" {
				return &provider.VendorError{Code: resp.StatusCode, Message: msg}
			}
		}

		return &provider.VendorError{Code: resp.StatusCode, Message: string(body)}
	}
}

// mapJobFields normalizes a raw vendor job payload into the attribute
// names the projector reads. Every value is best effort; absent or
// oddly shaped vendor fields simply stay missing from the map.
func mapJobFields(raw map[string]any) map[string]any {
	fields := make(map[string]any, 12)

	copyField(fields, raw, "id", "id")
	copyField(fields, raw, "backend_name", "backend")
	copyField(fields, raw, "instance", "instance")
	copyField(fields, raw, "user", "user_id")
	copyField(fields, raw, "simulator", "simulator")
	copyField(fields, raw, "status_history", "status_history")
	copyField(fields, raw, "logs", "logs")

	// Program id is nested in newer payloads, flat in older ones
	if program, ok := raw["program"].(map[string]any); ok {
		if id, ok := program["id"]; ok {
			fields["program_id"] = id
		}
	} else {
		copyField(fields, raw, "program_id", "program_id")
	}

	if created, ok := parseVendorTime(raw["created"]); ok {
		fields["created"] = created
	}
	if ended, ok := parseVendorTime(raw["ended"]); ok {
		fields["ended"] = ended
	}

	// Status moved under state.status at some point; accept both
	if state, ok := raw["state"].(map[string]any); ok {
		if status, ok := state["status"]; ok {
			fields["status"] = status
		}
	}
	if _, ok := fields["status"]; !ok {
		copyField(fields, raw, "status", "status")
	}

	// Usage seconds live either at the top level or under metrics
	if usage, ok := raw["usage"].(map[string]any); ok {
		fields["usage"] = usage
	} else if metrics, ok := raw["metrics"].(map[string]any); ok {
		if usage, ok := metrics["usage"].(map[string]any); ok {
			fields["usage"] = usage
		}
	}

	// Program inputs (pubs, observables, circuits) arrive as params
	if params, ok := raw["params"].(map[string]any); ok {
		fields["inputs"] = params
	}

	return fields
}

// mapBackendFields merges a device's status and configuration payloads
// into the attribute names the projector reads
func mapBackendFields(name string, status, config map[string]any) map[string]any {
	fields := map[string]any{"name": name}

	if status != nil {
		copyField(fields, status, "operational", "state")
		copyField(fields, status, "pending_jobs", "length_queue")
		if msg, ok := status["message"].(string); ok && msg != "" {
			fields["status_msg"] = msg
		} else {
			copyField(fields, status, "status_msg", "status")
		}
	}

	if config != nil {
		copyField(fields, config, "num_qubits", "n_qubits")
		copyField(fields, config, "backend_version", "backend_version")
		copyField(fields, config, "processor_type", "processor_type")
		copyField(fields, config, "basis_gates", "basis_gates")
		copyField(fields, config, "simulator", "simulator")
		if clops, ok := config["clops_h"]; ok {
			fields["clops"] = clops
		} else {
			copyField(fields, config, "clops", "clops")
		}
	}

	return fields
}

func copyField(dst map[string]any, src map[string]any, dstKey, srcKey string) {
	if v, ok := src[srcKey]; ok && v != nil {
		dst[dstKey] = v
	}
}

func parseVendorTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
