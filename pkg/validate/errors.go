package validate

import (
	"sort"
	"strings"
)

// FieldErrors collects validation failures keyed by the json field name.
type FieldErrors struct {
	Fields map[string]string `json:"fields"`
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field; the first message for a field wins.
func (e *FieldErrors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *FieldErrors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Err returns nil when nothing was recorded, so callers can `return errs.Err()`.
func (e *FieldErrors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
