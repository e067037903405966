// Package entity holds the types shared across sifter packages.
// It is imported as nt by convention.
package entity

import (
	"context"
	"strconv"
	"strings"
)

// Record is one row of a dataset, keyed by field name.
type Record map[string]any

// Result is a loaded dataset: column names in display order and the records.
type Result struct {
	Columns []string `json:"columns"`
	Data    []Record `json:"data"`
}

// Lookup walks a dotted path through nested objects and arrays.
// Paths without a dot index the record directly.
func (rec Record) Lookup(path string) (val Value, ok bool) {

	if !strings.Contains(path, ".") {
		raw, found := rec[path]
		return Value{Raw: raw}, found
	}

	var current any = map[string]any(rec)
	for _, key := range strings.Split(path, ".") {
		current, ok = step(current, key)
		if !ok {
			return
		}
	}

	val = Value{Raw: current}
	return
}

// Logger specifies a contextual, structured logger.
type Logger interface {
	Info(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, err error, kv ...any)
}

// unexported

func step(current any, key string) (next any, ok bool) {

	switch obj := current.(type) {
	case map[string]any:
		next, ok = obj[key]
	case Record:
		next, ok = obj[key]
	case []any:
		next, ok = index(obj, key)
	case []Record:
		next, ok = index(obj, key)
	case []map[string]any:
		next, ok = index(obj, key)
	}
	return
}

func index[T any](list []T, key string) (next any, ok bool) {

	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= len(list) {
		return
	}
	return list[idx], true
}
