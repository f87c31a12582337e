package projector

import (
	"fmt"
	"strings"

	"github.com/lei/quantum-tracker/internal/models"
)

// statusTable maps upper-cased vendor status tokens to canonical values.
// DONE is the vendor's terminal-success alias and folds into COMPLETED.
var statusTable = map[string]models.JobStatus{
	"QUEUED":    models.StatusQueued,
	"RUNNING":   models.StatusRunning,
	"COMPLETED": models.StatusCompleted,
	"ERROR":     models.StatusError,
	"CANCELLED": models.StatusCancelled,
	"CANCELED":  models.StatusCanceled,
	"DONE":      models.StatusCompleted,
	"UNKNOWN":   models.StatusUnknown,
}

// NormalizeStatus maps a vendor status of unknown shape (enum-like map,
// bare string, stringer, or nothing) to a canonical status. Unrecognized
// tokens map to UNKNOWN so the output vocabulary stays closed.
func NormalizeStatus(status any) models.JobStatus {
	token := statusToken(status)
	if token == "" {
		return models.StatusUnknown
	}

	// Vendor enums stringify as e.g. "JobStatus.DONE"
	if i := strings.LastIndex(token, "."); i >= 0 {
		token = token[i+1:]
	}
	token = strings.ToUpper(token)

	if canonical, ok := statusTable[token]; ok {
		return canonical
	}
	return models.StatusUnknown
}

func statusToken(status any) string {
	switch v := status.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.JobStatus:
		return string(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
		if value, ok := v["value"].(string); ok {
			return value
		}
		return ""
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
