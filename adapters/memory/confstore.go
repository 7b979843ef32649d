// Package memory provides in-memory implementations for testing and
// embedding.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
)

// ConfigStore is an in-memory implementation of ports.ConfigEditor. Bundles
// for non-system scopes are returned overlaid on the schema's system bundle.
type ConfigStore struct {
	mu      sync.RWMutex
	bundles map[string]map[scope.Key]conf.Values // schema -> scope -> bundle
}

// NewConfigStore creates an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		bundles: make(map[string]map[scope.Key]conf.Values),
	}
}

// Get returns the effective bundle for a schema at a scope.
func (s *ConfigStore) Get(ctx context.Context, schema string, key scope.Key) (conf.Values, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := s.bundles[schema]
	system, haveSystem := scopes[scope.SystemKey()]
	exact, haveExact := scopes[key]

	if !haveSystem && !haveExact {
		return nil, fmt.Errorf("%w: schema %q at %s", conf.ErrNotFound, schema, key)
	}
	return conf.Merge(system, exact), nil
}

// Set stores or replaces the bundle for a schema at a scope.
func (s *ConfigStore) Set(ctx context.Context, schema string, key scope.Key, values conf.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes, ok := s.bundles[schema]
	if !ok {
		scopes = make(map[scope.Key]conf.Values)
		s.bundles[schema] = scopes
	}
	scopes[key] = values.Clone()
	return nil
}

// Delete removes the bundle for a schema at a scope.
func (s *ConfigStore) Delete(ctx context.Context, schema string, key scope.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bundles[schema], key)
	return nil
}

// List returns the scopes at which a schema has a bundle, ordered broadest
// first and then by identifier.
func (s *ConfigStore) List(ctx context.Context, schema string) ([]scope.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []scope.Key
	for key := range s.bundles[schema] {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})
	return keys, nil
}
