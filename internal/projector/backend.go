package projector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lei/quantum-tracker/internal/models"
	"github.com/lei/quantum-tracker/internal/provider"
)

const noCalibrationMessage = "No calibration data available"

// ProjectBackend shapes one vendor device handle into a BackendRecord.
// Detailed mode additionally fetches the calibration snapshot, which is
// the slow path; a device without calibration data gets the basic record
// annotated instead of an error.
func ProjectBackend(ctx context.Context, backend provider.BackendHandle, detailed bool) (rec models.BackendRecord) {
	if backend == nil {
		return models.BackendRecord{Name: "Unknown", Error: "nil backend handle"}
	}

	defer func() {
		if r := recover(); r != nil {
			rec = models.BackendRecord{Name: backend.Name(), Error: fmt.Sprintf("%v", r)}
		}
	}()

	operational := fieldBool(backend, "operational")
	state := "inactive"
	if operational {
		state = "active"
	}

	qubitCount, _ := fieldInt(backend, "num_qubits")
	pendingJobs, _ := fieldInt(backend, "pending_jobs")
	statusMsg, _ := fieldString(backend, "status_msg")

	rec = models.BackendRecord{
		Name:          backend.Name(),
		Status:        state,
		Operational:   operational,
		StatusMsg:     statusMsg,
		QubitCount:    qubitCount,
		PendingJobs:   pendingJobs,
		QPUVersion:    stringField(backend, "backend_version"),
		ProcessorType: processorType(backend),
		BasisGates:    basisGates(backend),
		Region:        "Global",
		CLOPS:         rawField(backend, "clops"),
	}

	if !detailed {
		return rec
	}

	props, err := backend.Properties(ctx)
	if err != nil || props == nil {
		rec.CalibrationMessage = noCalibrationMessage
		return rec
	}

	calibration := buildCalibration(props)
	rec.Metrics = calibration.Metrics
	rec.CalibrationData = calibration
	return rec
}

// buildCalibration walks the calibration snapshot: per-qubit coherence
// times and readout errors, per-gate error rates bucketed by gate type,
// then median/min summary statistics
func buildCalibration(props map[string]any) *models.CalibrationData {
	var t1s, t2s, readoutErrs []float64
	qubitRows := []models.QubitCalibration{}

	rawQubits, _ := props["qubits"].([]any)
	for i, entry := range rawQubits {
		params, _ := entry.([]any)
		t1 := qubitParam(params, "T1")
		t2 := qubitParam(params, "T2")
		readout := 0.0
		if ro := qubitParam(params, "readout_error"); ro != nil {
			readout = *ro
		}

		if t1 != nil && *t1 != 0 {
			t1s = append(t1s, *t1)
		}
		if t2 != nil && *t2 != 0 {
			t2s = append(t2s, *t2)
		}
		if readout != 0 {
			readoutErrs = append(readoutErrs, readout)
		}

		qubitRows = append(qubitRows, models.QubitCalibration{
			Qubit:        i,
			T1:           t1,
			T2:           t2,
			ReadoutError: readout,
		})
	}

	var twoQubitErrs, sxErrs, czErrs, ecrErrs []float64
	gateRows := []models.GateCalibration{}

	rawGates, _ := props["gates"].([]any)
	for _, entry := range rawGates {
		gate, _ := entry.(map[string]any)
		if gate == nil {
			continue
		}

		name, _ := gate["name"].(string)
		gateType, _ := gate["gate"].(string)
		qubits := intSlice(gate["qubits"])
		gateErr := gateError(gate)

		gateRows = append(gateRows, models.GateCalibration{
			Name:   name,
			Qubits: qubits,
			Error:  gateErr,
			Gate:   gateType,
		})

		switch {
		case len(qubits) == 2:
			twoQubitErrs = append(twoQubitErrs, gateErr)
			if gateType == "cz" {
				czErrs = append(czErrs, gateErr)
			}
			if gateType == "ecr" {
				ecrErrs = append(ecrErrs, gateErr)
			}
		case gateType == "sx":
			sxErrs = append(sxErrs, gateErr)
		}
	}
	metrics := map[string]string{
		"T1 (median)":            formatMicroseconds(median(t1s)),
		"T2 (median)":            formatMicroseconds(median(t2s)),
		"Readout error (median)": formatErrorRate(median(readoutErrs)),
		"2Q error (median)":      formatErrorRate(median(twoQubitErrs)),
		"2Q error (best)":        formatErrorRate(minimum(twoQubitErrs)),
		"SX error (median)":      formatErrorRate(median(sxErrs)),
		"CZ error (median)":      formatErrorRate(median(czErrs)),
		"ECR error (median)":     formatErrorRate(median(ecrErrs)),
	}

	return &models.CalibrationData{
		Qubits:  qubitRows,
		Gates:   gateRows,
		Metrics: metrics,
	}
}

// qubitParam finds a named calibration parameter in a qubit's parameter
// list and normalizes time constants to microseconds
func qubitParam(params []any, name string) *float64 {
	for _, p := range params {
		item, _ := p.(map[string]any)
		if item == nil {
			continue
		}
		if itemName, _ := item["name"].(string); itemName != name {
			continue
		}
		value, ok := numberOf(item["value"])
		if !ok {
			return nil
		}
		unit, _ := item["unit"].(string)
		value = toMicroseconds(value, unit)
		return &value
	}
	return nil
}

// toMicroseconds converts a reported time constant to microseconds.
// Dimensionless values (e.g. readout error) carry no unit and pass through.
func toMicroseconds(value float64, unit string) float64 {
	switch unit {
	case "s":
		return value * 1e6
	case "ns":
		return value / 1e3
	default:
		return value
	}
}

func gateError(gate map[string]any) float64 {
	params, _ := gate["parameters"].([]any)
	for _, p := range params {
		param, _ := p.(map[string]any)
		if param == nil {
			continue
		}
		if name, _ := param["name"].(string); name != "gate_error" {
			continue
		}
		if v, ok := numberOf(param["value"]); ok {
			return v
		}
	}
	return 0
}

func intSlice(v any) []int {
	raw, _ := v.([]any)
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		if n, ok := numberOf(item); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// median returns the statistical median, or false for an empty list
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

func minimum(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	best := values[0]
	for _, v := range values[1:] {
		if v < best {
			best = v
		}
	}
	return best, true
}

func formatMicroseconds(v float64, ok bool) string {
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("%.2f us", v)
}

func formatErrorRate(v float64, ok bool) string {
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("%.4e", v)
}

func stringField(backend provider.BackendHandle, name string) string {
	v, ok := backend.Field(name)
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("%v", v)
}

func rawField(backend provider.BackendHandle, name string) any {
	v, ok := backend.Field(name)
	if !ok {
		return notAvailable
	}
	return v
}

// processorType renders the configured processor family and revision
func processorType(backend provider.BackendHandle) string {
	pt := fieldMap(backend, "processor_type")
	if pt == nil {
		return notAvailable
	}
	family, _ := pt["family"].(string)
	if family == "" {
		family = "Unknown"
	}
	revision := ""
	if rev, ok := pt["revision"]; ok && rev != nil {
		revision = fmt.Sprintf("%v", rev)
	}
	return strings.TrimSpace(family + " " + revision)
}

func basisGates(backend provider.BackendHandle) []string {
	raw := fieldSlice(backend, "basis_gates")
	gates := make([]string, 0, len(raw))
	for _, g := range raw {
		if s, ok := g.(string); ok {
			gates = append(gates, s)
		}
	}
	return gates
}
