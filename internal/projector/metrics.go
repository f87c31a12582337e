package projector

import (
	"math"

	"github.com/lei/quantum-tracker/internal/models"
)

// AggregateMetrics reduces a batch of projected job records (lite form is
// sufficient) into the dashboard summary counters. Pure function; input
// order does not matter.
func AggregateMetrics(jobs []models.JobRecord) models.MetricsSummary {
	totalJobs := len(jobs)

	liveJobs := 0
	completedCount := 0
	completedElapsed := 0.0
	users := make(map[string]struct{})

	for _, job := range jobs {
		if job.Status.Live() {
			liveJobs++
		}
		if job.Status == models.StatusCompleted {
			completedCount++
			completedElapsed += job.ElapsedTime
		}
		if job.User != "" {
			users[job.User] = struct{}{}
		}
	}

	avgWaitTime := 0.0
	if completedCount > 0 {
		avgWaitTime = completedElapsed / float64(completedCount)
	}

	successRate := 0.0
	if totalJobs > 0 {
		successRate = round2(float64(completedCount) / float64(totalJobs) * 100)
	}

	return models.MetricsSummary{
		TotalJobs:    totalJobs,
		LiveJobs:     liveJobs,
		AvgWaitTime:  avgWaitTime,
		SuccessRate:  successRate,
		OpenSessions: len(users),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
