// Package records holds decoded output as an ordered list of labelled fields.
package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is one named output value. Format, when set, is a printf verb used
// for textual and JSON renderings.
type Field struct {
	Key    string
	Label  string
	Format string
	Value  any
}

// Record is an ordered field list with a stable key order.
type Record []Field

// Keys returns the field keys in output order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Map renders the record for JSON consumers. Formatted integers become
// strings (hex IDs), formatted floats are rounded to their format precision.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for _, f := range r {
		out[f.Key] = f.rendered()
	}
	return out
}

// Text renders "Label: value" pairs on one line, rtl_433 key/value style.
func (r Record) Text() string {
	parts := make([]string, 0, len(r))
	for _, f := range r {
		label := f.Label
		if label == "" {
			label = f.Key
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, f.String()))
	}
	return strings.Join(parts, "  ")
}

// String formats the field value.
func (f Field) String() string {
	if f.Format != "" {
		return fmt.Sprintf(f.Format, f.Value)
	}
	return fmt.Sprint(f.Value)
}

func (f Field) rendered() any {
	if f.Format == "" {
		return f.Value
	}
	switch f.Value.(type) {
	case float32, float64:
		v, err := strconv.ParseFloat(f.String(), 64)
		if err != nil {
			return f.Value
		}
		return v
	default:
		return f.String()
	}
}
