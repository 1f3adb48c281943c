package service

import (
	"fmt"
	"strings"
)

// DefaultFormatters are the formatters layouts can reference by name.
func DefaultFormatters() map[string]func(interface{}) interface{} {
	return map[string]func(interface{}) interface{}{
		"currency": func(v interface{}) interface{} {
			if f, ok := toFloat(v); ok {
				return fmt.Sprintf("$%.2f", f)
			}
			return v
		},
		"percent": func(v interface{}) interface{} {
			if f, ok := toFloat(v); ok {
				return fmt.Sprintf("%.1f%%", f*100)
			}
			return v
		},
		"upper": func(v interface{}) interface{} {
			if s, ok := v.(string); ok {
				return strings.ToUpper(s)
			}
			return v
		},
	}
}

// toFloat accepts the numeric types produced by encoding/json and Go structs.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
