package sqlite

import (
	"context"
	"fmt"
	"sort"

	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
)

// ConfigStore implements ports.ConfigEditor using SQLite. Bundles for
// non-system scopes are returned overlaid on the schema's system bundle.
type ConfigStore struct {
	db *DB
}

// NewConfigStore creates a new SQLite-backed config store.
func NewConfigStore(db *DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns the effective bundle for a schema at a scope.
func (s *ConfigStore) Get(ctx context.Context, schema string, key scope.Key) (conf.Values, error) {
	system, err := s.bundle(ctx, schema, scope.SystemKey())
	if err != nil {
		return nil, err
	}

	exact := system
	if key != scope.SystemKey() {
		exact, err = s.bundle(ctx, schema, key)
		if err != nil {
			return nil, err
		}
	}

	if system == nil && exact == nil {
		return nil, fmt.Errorf("%w: schema %q at %s", conf.ErrNotFound, schema, key)
	}
	return conf.Merge(system, exact), nil
}

// bundle loads the raw bundle stored for one exact scope, nil when absent.
func (s *ConfigStore) bundle(ctx context.Context, schema string, key scope.Key) (conf.Values, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM conf_values
		WHERE schema_id = ? AND scope_kind = ? AND scope_id = ?`,
		schema, key.Kind.String(), key.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query bundle: %w", err)
	}
	defer rows.Close()

	var values conf.Values
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		if values == nil {
			values = make(conf.Values)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Set stores or replaces the bundle for a schema at a scope.
func (s *ConfigStore) Set(ctx context.Context, schema string, key scope.Key, values conf.Values) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM conf_values WHERE schema_id = ? AND scope_kind = ? AND scope_id = ?`,
		schema, key.Kind.String(), key.ID,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conf_values (schema_id, scope_kind, scope_id, key, value, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, schema, key.Kind.String(), key.ID, k, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the bundle for a schema at a scope.
func (s *ConfigStore) Delete(ctx context.Context, schema string, key scope.Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM conf_values WHERE schema_id = ? AND scope_kind = ? AND scope_id = ?`,
		schema, key.Kind.String(), key.ID,
	)
	return err
}

// List returns the scopes at which a schema has a bundle, ordered broadest
// first and then by identifier.
func (s *ConfigStore) List(ctx context.Context, schema string) ([]scope.Key, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT scope_kind, scope_id FROM conf_values WHERE schema_id = ?`,
		schema,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []scope.Key
	for rows.Next() {
		var kindName, id string
		if err := rows.Scan(&kindName, &id); err != nil {
			return nil, err
		}
		kind, err := scope.ParseKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("list scopes: %w", err)
		}
		keys = append(keys, scope.Key{Kind: kind, ID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})
	return keys, nil
}
