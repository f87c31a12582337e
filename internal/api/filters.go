package api

import "strconv"

const (
	defaultJobLimit = 20
	maxJobLimit     = 100
)

// parseLimit parses the limit query parameter, applying the default and
// maximum bounds
func parseLimit(value string) int {
	if value == "" {
		return defaultJobLimit
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return defaultJobLimit
	}
	if limit > maxJobLimit {
		return maxJobLimit
	}
	return limit
}

// parseBoolParam parses boolean query parameters like lite and detailed
func parseBoolParam(value string) bool {
	return value == "true" || value == "1"
}
