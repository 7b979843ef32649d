package scope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/confscope/confscope/domain/scope"
)

type stubRequest struct {
	tenantID   int64
	groupID    int64
	instanceID string
	err        error
}

func (s *stubRequest) TenantID() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.tenantID, nil
}

func (s *stubRequest) GroupID() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.groupID, nil
}

func (s *stubRequest) InstanceID() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.instanceID, nil
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind scope.Kind
		want string
	}{
		{scope.KindSystem, "system"},
		{scope.KindTenant, "tenant"},
		{scope.KindGroup, "group"},
		{scope.KindInstance, "instance"},
		{scope.Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, kind := range []scope.Kind{scope.KindSystem, scope.KindTenant, scope.KindGroup, scope.KindInstance} {
		parsed, err := scope.ParseKind(kind.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", kind, err)
		}
		if parsed != kind {
			t.Errorf("ParseKind(%q) = %v, want %v", kind, parsed, kind)
		}
	}

	if _, err := scope.ParseKind("widget"); err == nil {
		t.Error("ParseKind(widget) should fail")
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  scope.Key
		want string
	}{
		{scope.SystemKey(), "system"},
		{scope.TenantKey(7), "tenant:7"},
		{scope.GroupKey(42), "group:42"},
		{scope.InstanceKey("widget-42"), "instance:widget-42"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTenantIDFromContext(t *testing.T) {
	if _, err := scope.TenantIDFromContext(context.Background()); !errors.Is(err, scope.ErrContextMissing) {
		t.Errorf("unset context: err = %v, want ErrContextMissing", err)
	}

	ctx := scope.WithTenantID(context.Background(), 7)
	id, err := scope.TenantIDFromContext(ctx)
	if err != nil {
		t.Fatalf("TenantIDFromContext failed: %v", err)
	}
	if id != 7 {
		t.Errorf("tenant id = %d, want 7", id)
	}
}

func TestDescriptorResolve(t *testing.T) {
	ambient := scope.WithTenantID(context.Background(), 11)
	req := &stubRequest{tenantID: 21, groupID: 31, instanceID: "w-1"}
	failing := &stubRequest{err: scope.ErrContextMissing}

	tests := []struct {
		name       string
		ctx        context.Context
		descriptor scope.Descriptor
		want       scope.Key
		wantErr    bool
	}{
		{"system", context.Background(), scope.System(), scope.SystemKey(), false},
		{"system ignores ambient", ambient, scope.System(), scope.SystemKey(), false},
		{"zero descriptor is system", context.Background(), scope.Descriptor{}, scope.SystemKey(), false},
		{"explicit tenant", context.Background(), scope.Tenant(7), scope.TenantKey(7), false},
		{"explicit tenant ignores ambient", ambient, scope.Tenant(7), scope.TenantKey(7), false},
		{"ambient tenant", ambient, scope.CurrentTenant(), scope.TenantKey(11), false},
		{"ambient tenant missing", context.Background(), scope.CurrentTenant(), scope.Key{}, true},
		{"tenant from request", context.Background(), scope.TenantFromRequest(req), scope.TenantKey(21), false},
		{"tenant from failing request", context.Background(), scope.TenantFromRequest(failing), scope.Key{}, true},
		{"tenant from nil request", context.Background(), scope.TenantFromRequest(nil), scope.Key{}, true},
		{"explicit group", context.Background(), scope.Group(42), scope.GroupKey(42), false},
		{"group from request", context.Background(), scope.GroupFromRequest(req), scope.GroupKey(31), false},
		{"group from failing request", context.Background(), scope.GroupFromRequest(failing), scope.Key{}, true},
		{"explicit instance", context.Background(), scope.Instance("widget-42"), scope.InstanceKey("widget-42"), false},
		{"instance from request", context.Background(), scope.InstanceFromRequest(req), scope.InstanceKey("w-1"), false},
		{"instance from nil request", context.Background(), scope.InstanceFromRequest(nil), scope.Key{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.descriptor.Resolve(tt.ctx)
			if tt.wantErr {
				if !errors.Is(err, scope.ErrContextMissing) {
					t.Fatalf("err = %v, want ErrContextMissing", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if key != tt.want {
				t.Errorf("key = %s, want %s", key, tt.want)
			}
		})
	}
}

func TestDescriptorKind(t *testing.T) {
	tests := []struct {
		descriptor scope.Descriptor
		want       scope.Kind
	}{
		{scope.System(), scope.KindSystem},
		{scope.Tenant(1), scope.KindTenant},
		{scope.CurrentTenant(), scope.KindTenant},
		{scope.Group(1), scope.KindGroup},
		{scope.Instance("x"), scope.KindInstance},
	}
	for _, tt := range tests {
		if got := tt.descriptor.Kind(); got != tt.want {
			t.Errorf("Kind() = %v, want %v", got, tt.want)
		}
	}
}
