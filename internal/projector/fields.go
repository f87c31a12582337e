// Package projector shapes opaque vendor handles into the stable JSON
// records served to the dashboard. All vendor reads go through the
// guarded field helpers below so a missing or reshaped vendor attribute
// degrades one output field instead of failing the record.
package projector

import (
	"time"
)

// fieldReader is the minimal capability a projector needs from a handle
type fieldReader interface {
	Field(name string) (any, bool)
}

func fieldString(h fieldReader, name string) (string, bool) {
	v, ok := h.Field(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func fieldBool(h fieldReader, name string) bool {
	v, ok := h.Field(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// fieldInt tolerates the float64 shape JSON decoding gives numbers
func fieldInt(h fieldReader, name string) (int, bool) {
	v, ok := h.Field(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func fieldTime(h fieldReader, name string) (time.Time, bool) {
	v, ok := h.Field(name)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseTimestamp(t)
	}
	return time.Time{}, false
}

func fieldMap(h fieldReader, name string) map[string]any {
	v, ok := h.Field(name)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

func fieldSlice(h fieldReader, name string) []any {
	v, ok := h.Field(name)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// numberOf coerces the numeric shapes seen in vendor payloads
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
