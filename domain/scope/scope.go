// Package scope models the granularity at which configuration values are
// overridden: the scope kinds, descriptors naming a scope together with the
// source of its identifier, and the ambient tenant capability carried on a
// context.
package scope

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrContextMissing indicates a required scope identifier could not be
// derived from ambient or request context. It is distinct from a
// configuration lookup failure and must never be collapsed into one.
var ErrContextMissing = errors.New("scope context missing")

// Kind identifies the granularity of a scope, ordered from broadest to
// narrowest. Narrower kinds override broader ones in the store.
type Kind int

const (
	// KindSystem is the process-wide scope. It carries no identifier.
	KindSystem Kind = iota
	// KindTenant is the top-level organizational boundary (company).
	KindTenant
	// KindGroup is a sub-tenant boundary (site/workspace).
	KindGroup
	// KindInstance is a named component instance (widget, portlet).
	KindInstance
)

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindTenant:
		return "tenant"
	case KindGroup:
		return "group"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// ParseKind converts a canonical kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "system":
		return KindSystem, nil
	case "tenant":
		return KindTenant, nil
	case "group":
		return KindGroup, nil
	case "instance":
		return KindInstance, nil
	default:
		return 0, fmt.Errorf("unknown scope kind %q", s)
	}
}

// RequestContext exposes the scope identifiers carried by an inbound
// request. Each accessor fails with ErrContextMissing when the request
// carries no resolvable state for that identifier. Implementations live in
// adapters/; the resolver treats the request purely as an identifier source.
type RequestContext interface {
	TenantID() (int64, error)
	GroupID() (int64, error)
	InstanceID() (string, error)
}

// Key identifies a fully resolved scope. ID is empty for the system scope,
// the decimal tenant or group id, or the instance name.
type Key struct {
	Kind Kind
	ID   string
}

// SystemKey returns the key of the system scope.
func SystemKey() Key { return Key{Kind: KindSystem} }

// TenantKey returns the key of a tenant scope.
func TenantKey(id int64) Key {
	return Key{Kind: KindTenant, ID: strconv.FormatInt(id, 10)}
}

// GroupKey returns the key of a group scope.
func GroupKey(id int64) Key {
	return Key{Kind: KindGroup, ID: strconv.FormatInt(id, 10)}
}

// InstanceKey returns the key of a component instance scope.
func InstanceKey(name string) Key {
	return Key{Kind: KindInstance, ID: name}
}

// String renders the key for logs and store listings, e.g. "tenant:7".
func (k Key) String() string {
	if k.ID == "" {
		return k.Kind.String()
	}
	return k.Kind.String() + ":" + k.ID
}

type source int

const (
	sourceNone source = iota // system scope, no identifier needed
	sourceExplicit
	sourceAmbient
	sourceRequest
)

// Descriptor names a scope together with the source its identifier comes
// from. A descriptor uses exactly one identifier source; construct one with
// System, Tenant, CurrentTenant, Group, Instance or a FromRequest variant.
// The zero Descriptor is the system scope.
type Descriptor struct {
	kind Kind
	src  source
	id   int64
	name string
	req  RequestContext
}

// System describes the system-wide scope.
func System() Descriptor {
	return Descriptor{kind: KindSystem}
}

// Tenant describes a tenant scope with an explicit identifier.
func Tenant(id int64) Descriptor {
	return Descriptor{kind: KindTenant, src: sourceExplicit, id: id}
}

// CurrentTenant describes the tenant scope of the ambient tenant id
// established on the context by the host.
func CurrentTenant() Descriptor {
	return Descriptor{kind: KindTenant, src: sourceAmbient}
}

// TenantFromRequest describes the tenant scope carried by an inbound request.
func TenantFromRequest(req RequestContext) Descriptor {
	return Descriptor{kind: KindTenant, src: sourceRequest, req: req}
}

// Group describes a group scope with an explicit identifier. There is no
// ambient group; groups are explicit or request-derived.
func Group(id int64) Descriptor {
	return Descriptor{kind: KindGroup, src: sourceExplicit, id: id}
}

// GroupFromRequest describes the group scope carried by an inbound request.
func GroupFromRequest(req RequestContext) Descriptor {
	return Descriptor{kind: KindGroup, src: sourceRequest, req: req}
}

// Instance describes a component instance scope with an explicit name.
func Instance(name string) Descriptor {
	return Descriptor{kind: KindInstance, src: sourceExplicit, name: name}
}

// InstanceFromRequest describes the instance scope carried by an inbound
// request.
func InstanceFromRequest(req RequestContext) Descriptor {
	return Descriptor{kind: KindInstance, src: sourceRequest, req: req}
}

// Kind returns the scope kind the descriptor names.
func (d Descriptor) Kind() Kind {
	return d.kind
}
