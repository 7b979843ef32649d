// Package http adapts inbound HTTP requests into the scope identifiers the
// resolver consumes. It owns no request handling; the host's router does.
package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/confscope/confscope/domain/scope"
	"github.com/go-chi/chi/v5"
)

// Headers carrying scope identifiers, with chi URL params as fallback.
const (
	HeaderTenantID   = "X-Tenant-ID"
	HeaderGroupID    = "X-Group-ID"
	HeaderInstanceID = "X-Instance-ID"

	ParamTenantID   = "tenantID"
	ParamGroupID    = "groupID"
	ParamInstanceID = "instanceID"
)

// RequestContext implements scope.RequestContext over an *http.Request.
// Identifiers are read from headers first, then from chi route parameters
// when the request was routed by chi.
type RequestContext struct {
	r *http.Request
}

// NewRequestContext wraps a request as an identifier source.
func NewRequestContext(r *http.Request) RequestContext {
	return RequestContext{r: r}
}

// TenantID returns the tenant id carried by the request.
func (rc RequestContext) TenantID() (int64, error) {
	return rc.intValue(HeaderTenantID, ParamTenantID, "tenant id")
}

// GroupID returns the group id carried by the request.
func (rc RequestContext) GroupID() (int64, error) {
	return rc.intValue(HeaderGroupID, ParamGroupID, "group id")
}

// InstanceID returns the component instance id carried by the request.
func (rc RequestContext) InstanceID() (string, error) {
	v := rc.value(HeaderInstanceID, ParamInstanceID)
	if v == "" {
		return "", fmt.Errorf("instance id: %w", scope.ErrContextMissing)
	}
	return v, nil
}

func (rc RequestContext) intValue(header, param, what string) (int64, error) {
	v := rc.value(header, param)
	if v == "" {
		return 0, fmt.Errorf("%s: %w", what, scope.ErrContextMissing)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q not numeric: %w", what, v, scope.ErrContextMissing)
	}
	return id, nil
}

func (rc RequestContext) value(header, param string) string {
	if v := rc.r.Header.Get(header); v != "" {
		return v
	}
	return chi.URLParam(rc.r, param)
}
