package scope

import "context"

type ctxKey string

const tenantIDKey ctxKey = "tenant_id"

// WithTenantID returns a context carrying the ambient tenant id. The host
// establishes this once per unit of work (e.g. per request) before invoking
// the resolver, and tears the context down when the unit of work ends.
func WithTenantID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tenantIDKey, id)
}

// TenantIDFromContext returns the ambient tenant id established by the host.
// Fails with ErrContextMissing when no tenant id is set.
func TenantIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(tenantIDKey).(int64)
	if !ok {
		return 0, ErrContextMissing
	}
	return id, nil
}
