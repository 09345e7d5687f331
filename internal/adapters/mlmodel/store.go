// Package mlmodel manages the trained-model artifact on persistent storage.
//
// No inference happens here yet: the rule-based scorer serves all traffic
// until a trained model ships. The store tracks whether an artifact exists
// so readiness and metrics can report it, and reloads when the file changes.
package mlmodel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/healthwatch/riskd/pkg/logger"
	"github.com/healthwatch/riskd/pkg/metrics"
)

// Info describes the currently loaded artifact.
type Info struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store loads and tracks the model artifact at dir/name. Safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	dir  string
	name string

	loaded bool
	info   Info

	log logger.Logger
}

// New creates a store for the artifact at dir/name. Call Load before use.
func New(dir, name string, opts ...Option) *Store {
	s := &Store{
		dir:  dir,
		name: name,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the full artifact path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Load checks the artifact on disk and records its metadata. A missing
// artifact is not an error: the service keeps serving with the rule-based
// scorer and readiness reports model_loaded=false.
func (s *Store) Load(ctx context.Context) error {
	path := s.Path()

	st, err := os.Stat(path)
	if err != nil {
		s.setUnloaded()
		if errors.Is(err, fs.ErrNotExist) {
			if s.log != nil {
				s.log.Warn(ctx, "model artifact not found; rule-based scorer remains active",
					logger.String("path", path))
			}
			return nil
		}
		metrics.RecordModelLoadError()
		return fmt.Errorf("%w: stat %s: %w", ErrModelLoad, path, err)
	}
	if st.IsDir() {
		s.setUnloaded()
		metrics.RecordModelLoadError()
		return fmt.Errorf("%w: %s is a directory", ErrModelLoad, path)
	}

	s.mu.Lock()
	s.loaded = true
	s.info = Info{Path: path, Size: st.Size(), LoadedAt: time.Now().UTC()}
	s.mu.Unlock()

	metrics.UpdateModelLoaded(true)
	if s.log != nil {
		s.log.Info(ctx, "model artifact loaded",
			logger.String("path", path),
			logger.Int("size_bytes", int(st.Size())))
	}
	return nil
}

// Loaded reports whether an artifact is currently loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Info returns metadata for the loaded artifact, if any.
func (s *Store) Info() (Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info, s.loaded
}

// Watch reloads the artifact whenever its directory changes, until ctx is
// cancelled. It blocks, so run it on its own goroutine.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create watcher: %w", ErrModelWatch, err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrModelWatch, s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != s.name {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			metrics.RecordModelReload()
			if err := s.Load(ctx); err != nil && s.log != nil {
				s.log.Error(ctx, "model reload failed", logger.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if s.log != nil {
				s.log.Warn(ctx, "model watcher error", logger.Error(err))
			}
		}
	}
}

func (s *Store) setUnloaded() {
	s.mu.Lock()
	s.loaded = false
	s.info = Info{}
	s.mu.Unlock()
	metrics.UpdateModelLoaded(false)
}
