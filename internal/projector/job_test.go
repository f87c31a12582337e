package projector

import (
	"context"
	"testing"
	"time"

	"github.com/lei/quantum-tracker/internal/models"
)

// fakeJob implements provider.JobHandle for projector tests
type fakeJob struct {
	id          string
	fields      map[string]any
	result      any
	resultErr   error
	resultCalls int
}

func (f *fakeJob) ID() string { return f.id }

func (f *fakeJob) Field(name string) (any, bool) {
	v, ok := f.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fakeJob) Result(ctx context.Context) (any, error) {
	f.resultCalls++
	return f.result, f.resultErr
}

func TestProjectJobRunningSkipsResultFetch(t *testing.T) {
	job := &fakeJob{
		id: "job-1",
		fields: map[string]any{
			"status": "RUNNING",
		},
		result: map[string]any{"00": 512.0},
	}

	rec := ProjectJob(context.Background(), job, false)

	if rec.Status != models.StatusRunning {
		t.Errorf("Status = %s, want RUNNING", rec.Status)
	}
	if rec.Result != "N/A" {
		t.Errorf("Result = %v, want N/A", rec.Result)
	}
	if job.resultCalls != 0 {
		t.Errorf("result fetched %d times for a running job, want 0", job.resultCalls)
	}
}

func TestProjectJobCompletedFetchesResult(t *testing.T) {
	counts := map[string]any{"00": 498.0, "11": 526.0}
	job := &fakeJob{
		id: "job-2",
		fields: map[string]any{
			"status": "JobStatus.DONE",
		},
		result: counts,
	}

	rec := ProjectJob(context.Background(), job, false)

	if rec.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", rec.Status)
	}
	if job.resultCalls != 1 {
		t.Errorf("result fetched %d times, want 1", job.resultCalls)
	}
	got, ok := rec.Result.(map[string]any)
	if !ok || got["11"] != 526.0 {
		t.Errorf("Result = %v, want counts payload", rec.Result)
	}
}

func TestProjectJobCompletedResultErrorDegrades(t *testing.T) {
	job := &fakeJob{
		id:        "job-3",
		fields:    map[string]any{"status": "COMPLETED"},
		resultErr: context.DeadlineExceeded,
	}

	rec := ProjectJob(context.Background(), job, false)

	got, ok := rec.Result.(string)
	if !ok || got == "N/A" {
		t.Fatalf("Result = %v, want error description string", rec.Result)
	}
	if rec.JobID != "job-3" {
		t.Errorf("JobID = %q, rest of record must survive a result error", rec.JobID)
	}
}

func TestProjectJobLite(t *testing.T) {
	job := &fakeJob{
		id: "job-4",
		fields: map[string]any{
			"status": "COMPLETED",
			"inputs": map[string]any{"circuits": []any{"OPENQASM 3.0;"}},
		},
		result: "should never be fetched",
	}

	rec := ProjectJob(context.Background(), job, true)

	if job.resultCalls != 0 {
		t.Errorf("lite projection fetched result %d times, want 0", job.resultCalls)
	}
	if rec.Result != "N/A" {
		t.Errorf("Result = %v, want N/A", rec.Result)
	}
	if rec.Pubs != "N/A" || rec.Observables != "N/A" {
		t.Error("lite projection must replace inputs with placeholders")
	}
	if rec.Logs != "Detailed logs not available in list view." {
		t.Errorf("Logs = %q, want lite placeholder", rec.Logs)
	}
	if rec.Circuit == nil || rec.Circuit.QASM != "N/A" {
		t.Errorf("Circuit = %+v, want placeholder circuit", rec.Circuit)
	}
}

func TestProjectJobTimeline(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	started := time.Date(2024, 5, 1, 10, 0, 30, 0, time.UTC)
	ended := time.Date(2024, 5, 1, 10, 2, 0, 0, time.UTC)

	job := &fakeJob{
		id: "job-5",
		fields: map[string]any{
			"status":  "COMPLETED",
			"created": created,
			"ended":   ended,
			"status_history": []any{
				map[string]any{"status": "QUEUED", "datetime": created.Format(time.RFC3339)},
				map[string]any{"status": "RUNNING", "datetime": started.Format(time.RFC3339)},
			},
			"usage": map[string]any{"seconds": 4.2},
		},
		result: "ok",
	}

	rec := ProjectJob(context.Background(), job, false)

	if rec.Submitted != "2024-05-01 10:00:00" {
		t.Errorf("Submitted = %q", rec.Submitted)
	}
	if rec.ElapsedTime != 120 {
		t.Errorf("ElapsedTime = %v, want 120", rec.ElapsedTime)
	}
	if rec.QPUSeconds != 4.2 {
		t.Errorf("QPUSeconds = %v, want 4.2", rec.QPUSeconds)
	}

	sau := rec.StatusAndUsage
	if sau == nil {
		t.Fatal("StatusAndUsage missing")
	}
	if sau.TotalCompletionTime != "120.00s" {
		t.Errorf("TotalCompletionTime = %q, want 120.00s", sau.TotalCompletionTime)
	}
	if sau.PendingTime != "30.00s" {
		t.Errorf("PendingTime = %q, want 30.00s", sau.PendingTime)
	}
	if sau.InProgress != "2024-05-01 10:00:30" {
		t.Errorf("InProgress = %q", sau.InProgress)
	}
}

func TestProjectJobMissingTimestamps(t *testing.T) {
	job := &fakeJob{
		id: "job-6",
		fields: map[string]any{
			"status":  "RUNNING",
			"created": time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			// no ended, no running transition in history
		},
	}

	rec := ProjectJob(context.Background(), job, false)

	if rec.ElapsedTime != 0 {
		t.Errorf("ElapsedTime = %v, want 0 without a completion timestamp", rec.ElapsedTime)
	}
	sau := rec.StatusAndUsage
	if sau.TotalCompletionTime != "N/A" {
		t.Errorf("TotalCompletionTime = %q, want N/A", sau.TotalCompletionTime)
	}
	if sau.PendingTime != "N/A" || sau.InProgress != "N/A" {
		t.Errorf("PendingTime = %q, InProgress = %q, want N/A without a RUNNING transition", sau.PendingTime, sau.InProgress)
	}
	if sau.Completed != "N/A" {
		t.Errorf("Completed = %q, want N/A", sau.Completed)
	}
}

func TestProjectJobMaskedUser(t *testing.T) {
	mk := func(user string) models.JobRecord {
		return ProjectJob(context.Background(), &fakeJob{
			id:     "job-7",
			fields: map[string]any{"user": user, "status": "QUEUED"},
		}, true)
	}

	first := mk("alice")
	second := mk("alice")
	other := mk("bob")

	if first.User != second.User {
		t.Error("masked label not stable across projections of the same id")
	}
	if first.User == other.User {
		t.Error("distinct users produced the same masked label")
	}
	if first.User == "alice" {
		t.Error("raw identifier leaked into the record")
	}
}

func TestProjectJobRegion(t *testing.T) {
	tests := []struct {
		instance string
		want     string
	}{
		{"crn:v1:bluemix:public:quantum-computing:us-east:a/1::", "US East"},
		{"crn:v1:bluemix:public:quantum-computing:eu-de:a/1::", "Europe (Frankfurt)"},
		{"my-osaka-instance", "Asia Pacific (Osaka)"},
		{"something-else", "Global"},
		{"", "Global"},
	}

	for _, tt := range tests {
		job := &fakeJob{
			id:     "job-8",
			fields: map[string]any{"instance": tt.instance, "status": "QUEUED"},
		}
		rec := ProjectJob(context.Background(), job, true)
		if rec.Region != tt.want {
			t.Errorf("region for %q = %q, want %q", tt.instance, rec.Region, tt.want)
		}
	}
}

func TestProjectJobNilHandle(t *testing.T) {
	rec := ProjectJob(context.Background(), nil, false)
	if rec.Error == "" {
		t.Error("nil handle must yield an error-tagged record, not a panic")
	}
}
