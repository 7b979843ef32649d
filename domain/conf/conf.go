// Package conf provides value types for resolved configuration bundles.
// A schema names a typed bundle of settings; the resolver routes lookups and
// never interprets the bundle's fields.
package conf

import (
	"errors"
	"strconv"
	"time"
)

// ErrNotFound indicates the store has no configuration registered for the
// requested schema and scope.
var ErrNotFound = errors.New("configuration not found")

// Values is the configuration bundle returned by a store. A nil Values is
// the absent result of a fail-soft resolution and is safe to read; every
// accessor returns its zero or default value.
type Values map[string]string

// Get returns a value or empty string if not present.
func (v Values) Get(key string) string {
	return v[key]
}

// GetOrDefault returns a value or the default if not present or empty.
func (v Values) GetOrDefault(key, defaultValue string) string {
	if s, ok := v[key]; ok && s != "" {
		return s
	}
	return defaultValue
}

// GetBool returns a value as bool (true if "true", "1", "yes", "on").
func (v Values) GetBool(key string) bool {
	s := v[key]
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// GetInt returns a value as int or the default if not present or invalid.
func (v Values) GetInt(key string, defaultValue int) int {
	s := v[key]
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}

// GetInt64 returns a value as int64 or the default if not present or invalid.
func (v Values) GetInt64(key string, defaultValue int64) int64 {
	s := v[key]
	if s == "" {
		return defaultValue
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultValue
	}
	return i
}

// GetDuration returns a value as duration or the default if not present or
// invalid.
func (v Values) GetDuration(key string, defaultValue time.Duration) time.Duration {
	s := v[key]
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

// Clone returns a detached copy of the bundle. Cloning nil returns nil.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Merge overlays over onto base, preferring over's values. Neither input is
// mutated. Merging two nil bundles returns nil.
func Merge(base, over Values) Values {
	if base == nil && over == nil {
		return nil
	}
	out := make(Values, len(base)+len(over))
	for k, s := range base {
		out[k] = s
	}
	for k, s := range over {
		out[k] = s
	}
	return out
}
