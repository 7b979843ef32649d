package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/confscope/confscope/adapters/sqlite"
	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate database: %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}

func TestSetGet(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))
	ctx := context.Background()

	if err := store.Set(ctx, "billing", scope.TenantKey(7), conf.Values{"grace_days": "5", "currency": "EUR"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	values, err := store.Get(ctx, "billing", scope.TenantKey(7))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got := values.Get("grace_days"); got != "5" {
		t.Errorf("grace_days = %q, want 5", got)
	}
	if got := values.Get("currency"); got != "EUR" {
		t.Errorf("currency = %q, want EUR", got)
	}
}

func TestGetNotFound(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))

	_, err := store.Get(context.Background(), "billing", scope.TenantKey(7))
	if !errors.Is(err, conf.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetOverlaysSystem(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))
	ctx := context.Background()

	store.Set(ctx, "billing", scope.SystemKey(), conf.Values{"grace_days": "3", "currency": "USD"})
	store.Set(ctx, "billing", scope.GroupKey(42), conf.Values{"grace_days": "1"})

	values, err := store.Get(ctx, "billing", scope.GroupKey(42))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got := values.Get("grace_days"); got != "1" {
		t.Errorf("grace_days = %q, want group override 1", got)
	}
	if got := values.Get("currency"); got != "USD" {
		t.Errorf("currency = %q, want system default USD", got)
	}
}

func TestSetReplacesBundle(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))
	ctx := context.Background()

	store.Set(ctx, "billing", scope.TenantKey(7), conf.Values{"grace_days": "5", "stale": "yes"})
	store.Set(ctx, "billing", scope.TenantKey(7), conf.Values{"grace_days": "9"})

	values, err := store.Get(ctx, "billing", scope.TenantKey(7))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got := values.Get("grace_days"); got != "9" {
		t.Errorf("grace_days = %q, want 9", got)
	}
	if got := values.Get("stale"); got != "" {
		t.Errorf("stale = %q, Set should replace the whole bundle", got)
	}
}

func TestDelete(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))
	ctx := context.Background()

	store.Set(ctx, "billing", scope.InstanceKey("widget-42"), conf.Values{"k": "v"})
	if err := store.Delete(ctx, "billing", scope.InstanceKey("widget-42")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "billing", scope.InstanceKey("widget-42")); !errors.Is(err, conf.ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	store := sqlite.NewConfigStore(openTestDB(t))
	ctx := context.Background()

	store.Set(ctx, "billing", scope.TenantKey(7), conf.Values{"k": "v"})
	store.Set(ctx, "billing", scope.SystemKey(), conf.Values{"k": "v"})
	store.Set(ctx, "billing", scope.InstanceKey("widget-42"), conf.Values{"k": "v"})
	store.Set(ctx, "theme", scope.SystemKey(), conf.Values{"k": "v"})

	keys, err := store.List(ctx, "billing")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []scope.Key{
		scope.SystemKey(),
		scope.TenantKey(7),
		scope.InstanceKey("widget-42"),
	}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}
