package projector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lei/quantum-tracker/internal/models"
	"github.com/lei/quantum-tracker/internal/provider"
)

const (
	notAvailable = "N/A"
	liteLogsNote = "Detailed logs not available in list view."
)

// regionTokens maps CRN substrings to display regions, best effort
var regionTokens = []struct {
	token  string
	region string
}{
	{"us-east", "US East"},
	{"eu-de", "Europe (Frankfurt)"},
	{"osaka", "Asia Pacific (Osaka)"},
	{"tokyo", "Asia Pacific (Tokyo)"},
	{"sydney", "Asia Pacific (Sydney)"},
}

// ProjectJob shapes one vendor job handle into a JobRecord. In lite mode
// the expensive per-job details (result payload, circuit text) are
// replaced with placeholders and no result fetch happens. Projection
// never fails: a broken handle yields a minimal error-tagged record.
func ProjectJob(ctx context.Context, job provider.JobHandle, lite bool) (rec models.JobRecord) {
	if job == nil {
		return models.JobRecord{Error: "nil job handle"}
	}

	defer func() {
		if r := recover(); r != nil {
			rec = models.JobRecord{JobID: job.ID(), Error: fmt.Sprintf("%v", r)}
		}
	}()

	jobID := job.ID()
	programID, _ := fieldString(job, "program_id")
	instance, _ := fieldString(job, "instance")

	rawUser, ok := fieldString(job, "user")
	if !ok {
		rawUser = instance
	}
	if rawUser == "" {
		rawUser = "default"
	}
	maskedUser := MaskUser(rawUser)

	backendName, ok := fieldString(job, "backend_name")
	if !ok {
		backendName = "Unknown"
	}
	mode := "Real Quantum Computer"
	if fieldBool(job, "simulator") {
		mode = "Simulator"
	}

	statusRaw, _ := job.Field("status")
	status := NormalizeStatus(statusRaw)

	created, hasCreated := fieldTime(job, "created")
	completed, hasCompleted := fieldTime(job, "ended")

	createdStr := formatTimestamp(created, hasCreated)
	completedStr := formatTimestamp(completed, hasCompleted)

	// Both durations need both bounding timestamps; otherwise they stay
	// unavailable rather than reading as zero-length runs
	totalCompletionTime := notAvailable
	elapsedSeconds := 0.0
	if hasCreated && hasCompleted {
		elapsedSeconds = completed.Sub(created).Seconds()
		totalCompletionTime = formatDuration(elapsedSeconds)
	}

	history := statusHistory(job)
	pendingTime := notAvailable
	inProgress := notAvailable
	if runStart, ok := firstRunningTime(history); ok {
		inProgress = runStart.UTC().Format(timestampLayout)
		if hasCreated {
			pendingTime = formatDuration(runStart.Sub(created).Seconds())
		}
	}

	usage := fieldMap(job, "usage")
	qpuSeconds := 0.0
	if usage != nil {
		if n, ok := numberOf(usage["seconds"]); ok {
			qpuSeconds = n
		}
	}
	if usage == nil {
		usage = map[string]any{}
	}

	statusAndUsage := &models.StatusAndUsage{
		Status:              status,
		TotalCompletionTime: totalCompletionTime,
		ActualQRUsage:       usage,
		Created:             createdStr,
		PendingTime:         pendingTime,
		InProgress:          inProgress,
		QiskitRuntimeUsage:  formatDuration(qpuSeconds),
		Completed:           completedStr,
	}

	rec = models.JobRecord{
		JobID:           jobID,
		User:            maskedUser,
		Region:          regionFromInstance(instance),
		Program:         programID,
		Instance:        instance,
		Mode:            mode,
		QuantumComputer: backendName,
		Backend:         backendName,
		Submitted:       createdStr,
		ElapsedTime:     elapsedSeconds,
		QPUSeconds:      qpuSeconds,
		Status:          status,
		StatusHistory:   history,
		StatusAndUsage:  statusAndUsage,
	}

	if lite {
		rec.Logs = liteLogsNote
		rec.Pubs = notAvailable
		rec.Result = notAvailable
		rec.Observables = notAvailable
		rec.Circuit = &models.CircuitInfo{QASM: notAvailable, Qiskit: notAvailable}
		return rec
	}

	rec.Logs = "Logs available."
	if logs, ok := fieldString(job, "logs"); ok {
		rec.Logs = logs
	}

	inputs := fieldMap(job, "inputs")
	rec.Pubs = stringifyInput(inputs["pubs"])
	rec.Observables = stringifyInput(inputs["observables"])
	rec.Circuit = circuitInfo(job, inputs)

	// Result retrieval blocks for seconds; only completed jobs have one
	rec.Result = notAvailable
	if status == models.StatusCompleted {
		result, err := job.Result(ctx)
		switch {
		case err != nil:
			rec.Result = fmt.Sprintf("Error: %v", err)
		case result != nil:
			rec.Result = result
		}
	}

	return rec
}

const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time, ok bool) string {
	if !ok {
		return notAvailable
	}
	return t.UTC().Format(timestampLayout)
}

func formatDuration(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}

func regionFromInstance(instance string) string {
	for _, rt := range regionTokens {
		if strings.Contains(instance, rt.token) {
			return rt.region
		}
	}
	return "Global"
}

// statusHistory flattens the vendor's transition list, tolerating both
// map and pre-typed entries
func statusHistory(job provider.JobHandle) []models.StatusEvent {
	raw := fieldSlice(job, "status_history")
	if raw == nil {
		return []models.StatusEvent{}
	}

	events := make([]models.StatusEvent, 0, len(raw))
	for _, entry := range raw {
		switch e := entry.(type) {
		case models.StatusEvent:
			events = append(events, e)
		case map[string]any:
			ev := models.StatusEvent{}
			if s, ok := e["status"].(string); ok {
				ev.Status = s
			}
			if d, ok := e["datetime"].(string); ok {
				ev.Datetime = d
			}
			events = append(events, ev)
		}
	}
	return events
}

// firstRunningTime finds the timestamp of the first transition whose
// normalized status is RUNNING
func firstRunningTime(history []models.StatusEvent) (time.Time, bool) {
	for _, ev := range history {
		if NormalizeStatus(ev.Status) != models.StatusRunning {
			continue
		}
		if t, ok := parseTimestamp(ev.Datetime); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringifyInput(v any) string {
	switch val := v.(type) {
	case nil:
		return notAvailable
	case string:
		if val == "" {
			return notAvailable
		}
		return val
	case []any:
		if len(val) == 0 {
			return notAvailable
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func circuitInfo(job provider.JobHandle, inputs map[string]any) *models.CircuitInfo {
	info := &models.CircuitInfo{QASM: notAvailable, Qiskit: notAvailable}

	if diagram, ok := job.Field("image"); ok {
		info.Diagram = diagram
	}

	circuits, _ := inputs["circuits"].([]any)
	if len(circuits) == 0 {
		if single, ok := inputs["circuit"]; ok && single != nil {
			circuits = []any{single}
		}
	}
	if len(circuits) == 0 {
		return info
	}

	// Circuits travel as program text over the wire
	if text, ok := circuits[0].(string); ok && text != "" {
		info.QASM = text
		info.Qiskit = text
	}
	return info
}
