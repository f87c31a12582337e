package ibm

import (
	"testing"
	"time"
)

func TestMapJobFieldsNestedShapes(t *testing.T) {
	raw := map[string]any{
		"id":      "cxy123",
		"backend": "ibm_brisbane",
		"user_id": "u-42",
		"program": map[string]any{"id": "sampler"},
		"state":   map[string]any{"status": "Completed", "reason": ""},
		"created": "2024-05-01T10:00:00Z",
		"ended":   "2024-05-01T10:02:00.5Z",
		"metrics": map[string]any{
			"usage": map[string]any{"seconds": 3.1},
		},
		"params": map[string]any{"pubs": []any{}},
	}

	fields := mapJobFields(raw)

	if fields["id"] != "cxy123" {
		t.Errorf("id = %v", fields["id"])
	}
	if fields["backend_name"] != "ibm_brisbane" {
		t.Errorf("backend_name = %v", fields["backend_name"])
	}
	if fields["user"] != "u-42" {
		t.Errorf("user = %v", fields["user"])
	}
	if fields["program_id"] != "sampler" {
		t.Errorf("program_id = %v", fields["program_id"])
	}
	if fields["status"] != "Completed" {
		t.Errorf("status = %v, want the nested state.status", fields["status"])
	}

	created, ok := fields["created"].(time.Time)
	if !ok || !created.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("created = %v", fields["created"])
	}

	usage, ok := fields["usage"].(map[string]any)
	if !ok || usage["seconds"] != 3.1 {
		t.Errorf("usage = %v, want metrics.usage lifted", fields["usage"])
	}

	if _, ok := fields["inputs"]; !ok {
		t.Error("params not exposed as inputs")
	}
}

func TestMapJobFieldsFlatShapes(t *testing.T) {
	raw := map[string]any{
		"id":         "old-1",
		"program_id": "estimator",
		"status":     "RUNNING",
		"usage":      map[string]any{"seconds": 1.0},
	}

	fields := mapJobFields(raw)

	if fields["program_id"] != "estimator" {
		t.Errorf("program_id = %v, want flat fallback", fields["program_id"])
	}
	if fields["status"] != "RUNNING" {
		t.Errorf("status = %v, want flat fallback", fields["status"])
	}
	if usage, _ := fields["usage"].(map[string]any); usage["seconds"] != 1.0 {
		t.Errorf("usage = %v, want top-level usage", fields["usage"])
	}
}

func TestMapJobFieldsSkipsAbsent(t *testing.T) {
	fields := mapJobFields(map[string]any{"id": "x", "logs": nil})

	if _, ok := fields["logs"]; ok {
		t.Error("nil vendor value must stay absent")
	}
	if _, ok := fields["created"]; ok {
		t.Error("missing timestamp must stay absent")
	}
	if _, ok := fields["status"]; ok {
		t.Error("missing status must stay absent")
	}
}

func TestMapBackendFields(t *testing.T) {
	status := map[string]any{
		"state":        true,
		"length_queue": 17.0,
		"message":      "active",
	}
	config := map[string]any{
		"n_qubits":        127.0,
		"backend_version": "1.4.12",
		"processor_type":  map[string]any{"family": "Eagle", "revision": "r3"},
		"basis_gates":     []any{"ecr", "sx"},
		"clops_h":         180000.0,
	}

	fields := mapBackendFields("ibm_brisbane", status, config)

	if fields["name"] != "ibm_brisbane" {
		t.Errorf("name = %v", fields["name"])
	}
	if fields["operational"] != true {
		t.Errorf("operational = %v", fields["operational"])
	}
	if fields["pending_jobs"] != 17.0 {
		t.Errorf("pending_jobs = %v", fields["pending_jobs"])
	}
	if fields["status_msg"] != "active" {
		t.Errorf("status_msg = %v", fields["status_msg"])
	}
	if fields["num_qubits"] != 127.0 {
		t.Errorf("num_qubits = %v", fields["num_qubits"])
	}
	if fields["clops"] != 180000.0 {
		t.Errorf("clops = %v, want clops_h preferred", fields["clops"])
	}
}

func TestMapBackendFieldsDegraded(t *testing.T) {
	// Status-only: configuration fetch failed upstream
	fields := mapBackendFields("ibm_kyoto", map[string]any{"state": false, "status": "maintenance"}, nil)

	if fields["operational"] != false {
		t.Errorf("operational = %v", fields["operational"])
	}
	if fields["status_msg"] != "maintenance" {
		t.Errorf("status_msg = %v, want status fallback", fields["status_msg"])
	}
	if _, ok := fields["num_qubits"]; ok {
		t.Error("configuration fields must stay absent without a config payload")
	}

	// Nothing but the name
	fields = mapBackendFields("ibm_torino", nil, nil)
	if len(fields) != 1 || fields["name"] != "ibm_torino" {
		t.Errorf("fields = %v, want name only", fields)
	}
}

func TestParseVendorTime(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-05-01T10:00:00Z", true},
		{"2024-05-01T10:00:00.123456Z", true},
		{"2024-05-01T10:00:00+02:00", true},
		{"not a time", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := parseVendorTime(tt.in); ok != tt.ok {
			t.Errorf("parseVendorTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}

	if _, ok := parseVendorTime(nil); ok {
		t.Error("non-string input must not parse")
	}
}
