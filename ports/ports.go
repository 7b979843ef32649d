// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"

	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
)

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ConfigStore retrieves configuration bundles indexed by schema and scope.
// The store owns override precedence: the bundle it returns for a scope key
// is the effective one, with narrower values already overlaid on broader
// ones. The resolver never merges scopes itself.
type ConfigStore interface {
	// Get returns the effective bundle for a schema at a scope.
	// Returns an error wrapping conf.ErrNotFound when nothing is
	// configured for that schema at that scope or any broader one.
	Get(ctx context.Context, schema string, key scope.Key) (conf.Values, error)
}

// ConfigEditor extends ConfigStore with the management operations used by
// writable stores and operator tooling. Read-only stores (e.g. the YAML
// file store) implement only ConfigStore.
type ConfigEditor interface {
	ConfigStore

	// Set stores or replaces the bundle for a schema at a scope.
	Set(ctx context.Context, schema string, key scope.Key, values conf.Values) error

	// Delete removes the bundle for a schema at a scope.
	Delete(ctx context.Context, schema string, key scope.Key) error

	// List returns the scopes at which a schema has a bundle.
	List(ctx context.Context, schema string) ([]scope.Key, error)
}

// -----------------------------------------------------------------------------
// Observability Ports
// -----------------------------------------------------------------------------

// ResolverMetrics records resolution outcomes. Fire-and-forget: the resolver
// never consults a return value. Implementations must be safe for concurrent
// use.
type ResolverMetrics interface {
	// ObserveResolve counts one resolution for a schema and scope kind.
	// Outcome is one of "ok", "context_missing", "lookup_error" or
	// "fallback".
	ObserveResolve(schema, kind, outcome string)
}
