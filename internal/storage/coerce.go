// internal/storage/coerce.go
package storage

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"crediwise/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// normalizeValue turns driver-specific scan results into JSON-friendly values.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func stringValue(v any) string {
	switch x := normalizeValue(v).(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func stringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := stringValue(v)
	return &s
}

// numberValue reports numeric values only; strings are not numbers here.
func numberValue(v any) (float64, bool) {
	switch x := normalizeValue(v).(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// floatValue coerces numbers and numeric strings, like a float() cast.
func floatValue(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

// intValue truncates numbers and parses integer strings, like an int() cast.
func intValue(v any) (int64, bool) {
	if f, ok := numberValue(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func listValue(v any) []any {
	switch x := normalizeValue(v).(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	default:
		return []any{}
	}
}

func orEmptyList(v any) any {
	if v == nil {
		return []any{}
	}
	return normalizeValue(v)
}

// parseHighlights accepts a JSON array or a string holding one. Anything else
// yields no highlights.
func parseHighlights(v any) []domain.Highlight {
	var raw []byte
	switch x := v.(type) {
	case nil:
		return []domain.Highlight{}
	case string:
		raw = []byte(x)
	case []byte:
		raw = x
	case []any:
		encoded, err := json.Marshal(x)
		if err != nil {
			return []domain.Highlight{}
		}
		raw = encoded
	default:
		slog.Debug("Unexpected highlights type", "type", fmt.Sprintf("%T", v))
		return []domain.Highlight{}
	}

	var out []domain.Highlight
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Debug("Highlights are not a JSON list", "error", err)
		return []domain.Highlight{}
	}
	if out == nil {
		return []domain.Highlight{}
	}
	return out
}
