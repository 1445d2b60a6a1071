package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// Update sources reported in settings events
const (
	SourceAPI  = "api"
	SourceFile = "file"
)

// ErrInvalidPatch is returned by Merge when the patch is not a JSON document
var ErrInvalidPatch = errors.New("invalid settings patch")

// Store caches the settings document and persists it as a JSON file
type Store struct {
	path      string
	publisher *events.AttendanceEventPublisher
	logger    *logger.Logger

	mu      sync.RWMutex
	current Settings

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewStore loads the document at path. A missing file yields Defaults;
// a malformed one is an error.
func NewStore(path string, publisher *events.AttendanceEventPublisher, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		path:      path,
		publisher: publisher,
		logger:    log,
	}

	current, err := s.read()
	if err != nil {
		return nil, err
	}
	s.current = current

	return s, nil
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached document
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the document on disk and in the cache
func (s *Store) Update(ctx context.Context, doc Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(doc); err != nil {
		return err
	}
	s.current = doc

	s.publisher.PublishSettingsUpdated(ctx, s.path, SourceAPI)
	return nil
}

// Merge applies a partial JSON document over the cached one. Fields missing
// from raw keep their current value. The read, merge and write happen under
// one lock so concurrent merges never drop each other's fields.
func (s *Store) Merge(ctx context.Context, raw json.RawMessage) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.current
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := s.write(doc); err != nil {
		return Settings{}, err
	}
	s.current = doc

	s.publisher.PublishSettingsUpdated(ctx, s.path, SourceAPI)
	return doc, nil
}

// Reload re-reads the file and reports whether the cached document changed
func (s *Store) Reload() (bool, error) {
	doc, err := s.read()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == s.current {
		return false, nil
	}
	s.current = doc
	return true, nil
}

func (s *Store) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	doc := Defaults()
	if err := json.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return doc, nil
}

// write replaces the file through a rename so readers never see a partial document
func (s *Store) write(doc Settings) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// ============================================================================
// FILE WATCHER
// ============================================================================

// Watch reloads the cache whenever the settings file is edited outside the
// service. It returns once the watcher is registered; call Close to stop it.
func (s *Store) Watch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// editors and our own writes replace the file, so watch its directory
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s.watcher = watcher
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(watcher, s.stopCh, s.doneCh)

	s.logger.Info().Str("path", s.path).Msg("watching settings file")
	return nil
}

func (s *Store) run(watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	name := filepath.Clean(s.path)
	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.reloadFromFile()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (s *Store) reloadFromFile() {
	changed, err := s.Reload()
	if err != nil {
		// half-written files are picked up by the next write event
		s.logger.Warn().Err(err).Msg("failed to reload settings")
		return
	}
	if !changed {
		return
	}

	s.logger.Info().Str("path", s.path).Msg("settings reloaded")
	s.publisher.PublishSettingsUpdated(context.Background(), s.path, SourceFile)
}

// Close stops the watcher, if running
func (s *Store) Close() error {
	s.mu.Lock()
	watcher, stopCh, doneCh := s.watcher, s.stopCh, s.doneCh
	s.watcher = nil
	s.mu.Unlock()

	if watcher == nil {
		return nil
	}

	close(stopCh)
	<-doneCh
	return watcher.Close()
}
