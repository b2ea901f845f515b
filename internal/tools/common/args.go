package common

import (
	"fmt"
	"math"
)

// RequiredString returns the non-empty string argument name.
func RequiredString(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// OptionalString returns the string argument name, or "".
func OptionalString(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// OptionalInt64 returns the integer argument name, or def when absent. JSON
// numbers arrive as float64; fractional values are rejected.
func OptionalInt64(args map[string]interface{}, name string, def int64) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}
