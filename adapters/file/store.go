// Package file provides a read-only, YAML-backed implementation of the
// config store port with hot reload support.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// document is the on-disk layout: schemas keyed by id, each holding the
// bundles per scope.
//
//	schemas:
//	  billing:
//	    system: {grace_days: "3"}
//	    tenant:
//	      "7": {grace_days: "5"}
//	    group:
//	      "42": {grace_days: "1"}
//	    instance:
//	      widget-42: {grace_days: "0"}
type document struct {
	Schemas map[string]schemaDoc `yaml:"schemas"`
}

type schemaDoc struct {
	System   map[string]string            `yaml:"system"`
	Tenant   map[string]map[string]string `yaml:"tenant"`
	Group    map[string]map[string]string `yaml:"group"`
	Instance map[string]map[string]string `yaml:"instance"`
}

// Store implements ports.ConfigStore from a YAML file. Writes go through the
// file, not the store; Reload or WatchFile picks them up. Bundles for
// non-system scopes are returned overlaid on the schema's system bundle.
type Store struct {
	mu      sync.RWMutex
	bundles map[string]map[scope.Key]conf.Values
	path    string
	logger  zerolog.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// Open loads the YAML document at path and returns a store serving it.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	bundles, err := load(absPath)
	if err != nil {
		return nil, err
	}

	return &Store{
		bundles: bundles,
		path:    absPath,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Get returns the effective bundle for a schema at a scope.
func (s *Store) Get(ctx context.Context, schema string, key scope.Key) (conf.Values, error) {
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

// Reload re-reads the file from disk. Returns an error and keeps serving the
// old snapshot if loading fails.
func (s *Store) Reload() error {
	bundles, err := load(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("config file reload failed, keeping old snapshot")
		return fmt.Errorf("reload config file: %w", err)
	}

	s.mu.Lock()
	s.bundles = bundles
	s.mu.Unlock()

	s.logger.Info().Str("path", s.path).Msg("config file reloaded")
	return nil
}

// WatchFile starts watching the backing file for changes. Changes trigger
// automatic reload.
func (s *Store) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go s.watchLoop()

	s.logger.Info().Str("path", s.path).Msg("watching config file for changes")
	return nil
}

// Stop stops watching for file changes.
func (s *Store) Stop() {
	close(s.stopCh)
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Store) watchLoop() {
	filename := filepath.Base(s.path)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("config file changed")

				if err := s.Reload(); err != nil {
					s.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().Err(err).Msg("file watcher error")

		case <-s.stopCh:
			return
		}
	}
}

func load(path string) (map[string]map[scope.Key]conf.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	bundles := make(map[string]map[scope.Key]conf.Values, len(doc.Schemas))
	for schema, sd := range doc.Schemas {
		scopes := make(map[scope.Key]conf.Values)
		if sd.System != nil {
			scopes[scope.SystemKey()] = conf.Values(sd.System)
		}
		for id, values := range sd.Tenant {
			scopes[scope.Key{Kind: scope.KindTenant, ID: id}] = conf.Values(values)
		}
		for id, values := range sd.Group {
			scopes[scope.Key{Kind: scope.KindGroup, ID: id}] = conf.Values(values)
		}
		for name, values := range sd.Instance {
			scopes[scope.Key{Kind: scope.KindInstance, ID: name}] = conf.Values(values)
		}
		bundles[schema] = scopes
	}
	return bundles, nil
}
