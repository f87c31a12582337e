package projector

import (
	"testing"

	"github.com/lei/quantum-tracker/internal/models"
)

func TestAggregateMetricsEmpty(t *testing.T) {
	got := AggregateMetrics(nil)

	if got.TotalJobs != 0 {
		t.Errorf("TotalJobs = %d, want 0", got.TotalJobs)
	}
	if got.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 (no division by zero)", got.SuccessRate)
	}
	if got.AvgWaitTime != 0 {
		t.Errorf("AvgWaitTime = %v, want 0", got.AvgWaitTime)
	}
}

func TestAggregateMetrics(t *testing.T) {
	jobs := []models.JobRecord{
		{Status: models.StatusCompleted, ElapsedTime: 10, User: "user_aaaaaa"},
		{Status: models.StatusCompleted, ElapsedTime: 30, User: "user_bbbbbb"},
		{Status: models.StatusRunning, User: "user_aaaaaa"},
		{Status: models.StatusQueued, User: "user_cccccc"},
		{Status: models.StatusError, User: "user_aaaaaa"},
		{Status: models.StatusUnknown, User: ""},
	}

	got := AggregateMetrics(jobs)

	if got.TotalJobs != len(jobs) {
		t.Errorf("TotalJobs = %d, want %d", got.TotalJobs, len(jobs))
	}
	if got.LiveJobs != 2 {
		t.Errorf("LiveJobs = %d, want 2", got.LiveJobs)
	}
	if got.AvgWaitTime != 20 {
		t.Errorf("AvgWaitTime = %v, want 20", got.AvgWaitTime)
	}
	// 2 completed of 6 total
	if got.SuccessRate != 33.33 {
		t.Errorf("SuccessRate = %v, want 33.33", got.SuccessRate)
	}
	if got.OpenSessions != 3 {
		t.Errorf("OpenSessions = %d, want 3", got.OpenSessions)
	}
	if got.OpenSessions > got.TotalJobs {
		t.Errorf("OpenSessions %d exceeds TotalJobs %d", got.OpenSessions, got.TotalJobs)
	}
}

func TestAggregateMetricsNoCompleted(t *testing.T) {
	jobs := []models.JobRecord{
		{Status: models.StatusRunning, User: "user_aaaaaa"},
		{Status: models.StatusQueued, User: "user_aaaaaa"},
	}

	got := AggregateMetrics(jobs)

	if got.AvgWaitTime != 0 {
		t.Errorf("AvgWaitTime = %v, want 0 with no completed jobs", got.AvgWaitTime)
	}
	if got.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", got.SuccessRate)
	}
	if got.LiveJobs != 2 {
		t.Errorf("LiveJobs = %d, want 2", got.LiveJobs)
	}
	if got.OpenSessions != 1 {
		t.Errorf("OpenSessions = %d, want 1", got.OpenSessions)
	}
}
