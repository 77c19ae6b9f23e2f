package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
)

// Watcher is implemented by repositories that can react to out-of-band edits
// of their backing store.
type Watcher interface {
	Watch(ctx context.Context, manager *Manager) error
}

// fileRepository persists the playlist store as one JSON file on the local
// device.
type fileRepository struct {
	path string

	mu        sync.Mutex
	lastWrite time.Time
}

// NewFileRepository creates a file-backed playlist repository.
func NewFileRepository(path string) Repository {
	return &fileRepository{path: path}
}

// Load reads the persisted store. A missing file is an empty store; a corrupt
// file is an error the manager downgrades to empty.
func (r *fileRepository) Load(ctx context.Context) (*model.PlaylistStore, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPlaylistStore(), nil
		}
		return nil, fmt.Errorf("failed to read playlist store: %w", err)
	}

	s := model.NewPlaylistStore()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode playlist store: %w", err)
	}
	return s, nil
}

// Save writes the whole store atomically: write a temp file, then rename over
// the old one.
func (r *fileRepository) Save(ctx context.Context, s *model.PlaylistStore) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode playlist store: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create playlist store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlists-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp playlist file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write playlist store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp playlist file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace playlist store: %w", err)
	}

	r.mu.Lock()
	r.lastWrite = time.Now()
	r.mu.Unlock()
	return nil
}

// ownWrite reports whether a filesystem event is most likely an echo of our
// own save.
func (r *fileRepository) ownWrite() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastWrite) < 500*time.Millisecond
}

// Watch reloads the manager when another process rewrites the store file.
// Blocks until the context is cancelled; run it in its own goroutine.
func (r *fileRepository) Watch(ctx context.Context, manager *Manager) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create playlist store watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and atomic saves replace the file node.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("failed to watch playlist store directory: %w", err)
	}

	for {
		select {
		case event := <-watcher.Events:
			if event.Name != r.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if r.ownWrite() {
				continue
			}
			logger.Info("playlist store changed on disk, reloading",
				logger.String("path", r.path))
			manager.Reload(ctx)
		case err := <-watcher.Errors:
			logger.Warn("playlist store watcher error", logger.ErrorField(err))
		case <-ctx.Done():
			return nil
		}
	}
}
