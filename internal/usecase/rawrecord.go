package usecase

import (
	"strconv"
	"strings"
)

// RawRecord is one upstream per-player record: a lookup from string keys to
// loosely-typed values with no guaranteed key set. The upstream schema is
// unversioned and fields get renamed between seasons, so every access goes
// through a get-with-default accessor rather than direct indexing.
type RawRecord map[string]any

// GetString returns the trimmed string value for the first present key,
// or "" when none match.
func (r RawRecord) GetString(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := raw.(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// GetInt64 returns the integer value for the first key holding one,
// or 0 when none match. Numeric strings are parsed; upstream encodes
// several counters that way.
func (r RawRecord) GetInt64(keys ...string) int64 {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			return int64(typed)
		case float32:
			return int64(typed)
		case int:
			return int64(typed)
		case int64:
			return typed
		case string:
			value, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
			if err != nil {
				continue
			}
			return value
		}
	}
	return 0
}

// GetFloat returns the float value for the first key holding one, or 0 when
// none match. Upstream sends most decimal stats as strings ("5.5", "0.0").
func (r RawRecord) GetFloat(keys ...string) float64 {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			return typed
		case float32:
			return float64(typed)
		case int:
			return float64(typed)
		case int64:
			return float64(typed)
		case string:
			value, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err != nil {
				continue
			}
			return value
		}
	}
	return 0
}

// Has reports whether any of the keys is present with a non-nil value.
func (r RawRecord) Has(keys ...string) bool {
	for _, key := range keys {
		if raw, ok := r[key]; ok && raw != nil {
			return true
		}
	}
	return false
}
