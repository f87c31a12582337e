package projector

import (
	"context"
	"errors"
	"testing"
)

// fakeBackend implements provider.BackendHandle for projector tests
type fakeBackend struct {
	name     string
	fields   map[string]any
	props    map[string]any
	propsErr error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Field(name string) (any, bool) {
	v, ok := f.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fakeBackend) Properties(ctx context.Context) (map[string]any, error) {
	return f.props, f.propsErr
}

func TestProjectBackendBasic(t *testing.T) {
	backend := &fakeBackend{
		name: "ibm_brisbane",
		fields: map[string]any{
			"operational":     true,
			"num_qubits":      127,
			"pending_jobs":    42,
			"status_msg":      "active",
			"backend_version": "1.4.12",
			"processor_type":  map[string]any{"family": "Eagle", "revision": "r3"},
			"basis_gates":     []any{"ecr", "id", "rz", "sx", "x"},
			"clops":           180000.0,
		},
	}

	rec := ProjectBackend(context.Background(), backend, false)

	if rec.Name != "ibm_brisbane" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Status != "active" || !rec.Operational {
		t.Errorf("Status = %q, Operational = %v, want active/true", rec.Status, rec.Operational)
	}
	if rec.QubitCount != 127 || rec.PendingJobs != 42 {
		t.Errorf("QubitCount = %d, PendingJobs = %d", rec.QubitCount, rec.PendingJobs)
	}
	if rec.ProcessorType != "Eagle r3" {
		t.Errorf("ProcessorType = %q, want Eagle r3", rec.ProcessorType)
	}
	if len(rec.BasisGates) != 5 || rec.BasisGates[0] != "ecr" {
		t.Errorf("BasisGates = %v", rec.BasisGates)
	}
	if rec.CalibrationData != nil || rec.CalibrationMessage != "" {
		t.Error("basic projection must not carry calibration fields")
	}
}

func TestProjectBackendOffline(t *testing.T) {
	backend := &fakeBackend{
		name:   "ibm_kyoto",
		fields: map[string]any{"operational": false},
	}

	rec := ProjectBackend(context.Background(), backend, false)

	if rec.Status != "inactive" || rec.Operational {
		t.Errorf("Status = %q, Operational = %v, want inactive/false", rec.Status, rec.Operational)
	}
	if rec.ProcessorType != "N/A" {
		t.Errorf("ProcessorType = %q, want N/A when unreported", rec.ProcessorType)
	}
}

func TestProjectBackendDetailedCalibration(t *testing.T) {
	qubit := func(t1, t2, readout float64, t1Unit string) []any {
		return []any{
			map[string]any{"name": "T1", "value": t1, "unit": t1Unit},
			map[string]any{"name": "T2", "value": t2, "unit": "us"},
			map[string]any{"name": "readout_error", "value": readout, "unit": ""},
		}
	}
	gate := func(name, gateType string, qubits []any, gateErr float64) map[string]any {
		return map[string]any{
			"name":   name,
			"gate":   gateType,
			"qubits": qubits,
			"parameters": []any{
				map[string]any{"name": "gate_error", "value": gateErr},
			},
		}
	}

	backend := &fakeBackend{
		name:   "ibm_sherbrooke",
		fields: map[string]any{"operational": true},
		props: map[string]any{
			"qubits": []any{
				// 50000 ns normalizes to 50 us; 0.0002 s to 200 us
				qubit(50000, 80, 0.01, "ns"),
				qubit(0.0002, 120, 0.02, "s"),
			},
			"gates": []any{
				gate("ecr0_1", "ecr", []any{0.0, 1.0}, 0.008),
				gate("cz1_2", "cz", []any{1.0, 2.0}, 0.004),
				gate("sx0", "sx", []any{0.0}, 0.0002),
			},
		},
	}

	rec := ProjectBackend(context.Background(), backend, true)

	cal := rec.CalibrationData
	if cal == nil {
		t.Fatal("CalibrationData missing")
	}
	if len(cal.Qubits) != 2 || len(cal.Gates) != 3 {
		t.Fatalf("rows: %d qubits, %d gates", len(cal.Qubits), len(cal.Gates))
	}

	q0 := cal.Qubits[0]
	if q0.T1 == nil || *q0.T1 != 50 {
		t.Errorf("qubit 0 T1 = %v, want 50 us from 50000 ns", q0.T1)
	}
	q1 := cal.Qubits[1]
	if q1.T1 == nil || *q1.T1 != 200 {
		t.Errorf("qubit 1 T1 = %v, want 200 us from 0.0002 s", q1.T1)
	}

	metrics := cal.Metrics
	if got := metrics["T1 (median)"]; got != "125.00 us" {
		t.Errorf("T1 (median) = %q, want 125.00 us", got)
	}
	if got := metrics["T2 (median)"]; got != "100.00 us" {
		t.Errorf("T2 (median) = %q, want 100.00 us", got)
	}
	// two 2q gates: median of {0.008, 0.004} = 0.006, best = 0.004
	if got := metrics["2Q error (median)"]; got != "6.0000e-03" {
		t.Errorf("2Q error (median) = %q", got)
	}
	if got := metrics["2Q error (best)"]; got != "4.0000e-03" {
		t.Errorf("2Q error (best) = %q", got)
	}
	if got := metrics["CZ error (median)"]; got != "4.0000e-03" {
		t.Errorf("CZ error (median) = %q", got)
	}
	if got := metrics["ECR error (median)"]; got != "8.0000e-03" {
		t.Errorf("ECR error (median) = %q", got)
	}
	if got := metrics["SX error (median)"]; got != "2.0000e-04" {
		t.Errorf("SX error (median) = %q", got)
	}
	if rec.CalibrationMessage != "" {
		t.Errorf("CalibrationMessage = %q, want empty when data exists", rec.CalibrationMessage)
	}
}

func TestProjectBackendEmptyBuckets(t *testing.T) {
	backend := &fakeBackend{
		name:   "ibm_torino",
		fields: map[string]any{"operational": true},
		props:  map[string]any{"qubits": []any{}, "gates": []any{}},
	}

	rec := ProjectBackend(context.Background(), backend, true)

	if rec.CalibrationData == nil {
		t.Fatal("CalibrationData missing")
	}
	for key, got := range rec.CalibrationData.Metrics {
		if got != "N/A" {
			t.Errorf("%s = %q, want N/A for empty bucket", key, got)
		}
	}
}

func TestProjectBackendNoProperties(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{"error", &fakeBackend{name: "b1", propsErr: errors.New("upstream 500")}},
		{"nil snapshot", &fakeBackend{name: "b2"}},
	}

	for _, tt := range tests {
		rec := ProjectBackend(context.Background(), tt.backend, true)
		if rec.CalibrationMessage != "No calibration data available" {
			t.Errorf("%s: CalibrationMessage = %q", tt.name, rec.CalibrationMessage)
		}
		if rec.CalibrationData != nil {
			t.Errorf("%s: CalibrationData = %+v, want nil", tt.name, rec.CalibrationData)
		}
	}
}

func TestProjectBackendNilHandle(t *testing.T) {
	rec := ProjectBackend(context.Background(), nil, true)
	if rec.Error == "" {
		t.Error("nil handle must yield an error-tagged record, not a panic")
	}
}
