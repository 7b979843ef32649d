// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"

	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
	"github.com/confscope/confscope/ports"
	"github.com/rs/zerolog"
)

// Outcome labels reported to the metrics port.
const (
	outcomeOK             = "ok"
	outcomeContextMissing = "context_missing"
	outcomeLookupError    = "lookup_error"
	outcomeFallback       = "fallback"
)

// Resolver routes configuration lookups to the store, deriving missing scope
// identifiers from ambient or request context. It holds no mutable state and
// is safe for concurrent use; every call re-queries the store.
type Resolver struct {
	store   ports.ConfigStore
	logger  zerolog.Logger
	metrics ports.ResolverMetrics
}

// ResolverOption configures optional resolver collaborators.
type ResolverOption func(*Resolver)

// WithMetrics attaches a metrics recorder for resolution outcomes.
func WithMetrics(m ports.ResolverMetrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store ports.ConfigStore, logger zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the effective configuration for a schema at the scope
// named by the descriptor. Identifier derivation happens first: explicit
// identifiers win, ambient or request context is consulted only when the
// descriptor asks for it, and a failed derivation returns an error wrapping
// scope.ErrContextMissing before any store call. Store failures are returned
// unchanged. Every failure is logged at error level with the schema and the
// identifiers known at that point.
func (r *Resolver) Resolve(ctx context.Context, schema string, d scope.Descriptor) (conf.Values, error) {
	key, err := d.Resolve(ctx)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("schema", schema).
			Stringer("scope", d.Kind()).
			Msg("unable to derive scope identifier")
		r.observe(schema, d.Kind(), outcomeContextMissing)
		return nil, err
	}

	values, err := r.store.Get(ctx, schema, key)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("schema", schema).
			Stringer("scope", key).
			Msg("unable to load configuration")
		r.observe(schema, d.Kind(), outcomeLookupError)
		return nil, err
	}

	r.observe(schema, d.Kind(), outcomeOK)
	return values, nil
}

// ResolveSafe is the fail-soft form of Resolve: identical routing, but any
// failure is logged once at warning level and converted to a nil bundle
// instead of being propagated. A nil conf.Values is safe to read. This is
// the only place failures are swallowed.
func (r *Resolver) ResolveSafe(ctx context.Context, schema string, d scope.Descriptor) conf.Values {
	values, err := r.Resolve(ctx, schema, d)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("schema", schema).
			Stringer("scope", d.Kind()).
			Msg("configuration not available, returning nil")
		r.observe(schema, d.Kind(), outcomeFallback)
		return nil
	}
	return values
}

func (r *Resolver) observe(schema string, kind scope.Kind, outcome string) {
	if r.metrics != nil {
		r.metrics.ObserveResolve(schema, kind.String(), outcome)
	}
}
