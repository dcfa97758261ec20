package config

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of fsnotify events an editor save
// typically produces into one reload.
const reloadDebounce = 500 * time.Millisecond

// Manager holds the live configuration and hot-reloads it when the backing
// file changes. Readers always see a complete config: updates swap an atomic
// pointer, never mutate in place.
type Manager struct {
	current  atomic.Pointer[Config]
	path     string
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	log      *slog.Logger
}

// NewManager loads the file at path and returns a manager serving it. The
// file must parse and validate; a broken config at startup is fatal, only
// later edits are forgiven.
func NewManager(path string, log *slog.Logger) (*Manager, error) {
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	m := &Manager{path: path, log: log}
	m.current.Store(cfg)
	return m, nil
}

// Get returns the current configuration. Safe for concurrent use; the
// returned config is never mutated after publication.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// OnChange registers a callback invoked after each successful reload.
// Register before Watch; the callback list is not synchronized.
func (m *Manager) OnChange(fn func(*Config)) {
	m.onChange = append(m.onChange, fn)
}

// Watch starts watching the config file until ctx is cancelled. Edits are
// debounced and applied atomically; a reload that fails keeps the current
// config.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.path); err != nil {
		_ = watcher.Close()
		return err
	}
	m.watcher = watcher

	go m.watchLoop(ctx)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context) {
	var pending *time.Timer

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			_ = m.watcher.Close()
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(reloadDebounce, m.reload)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.log.Error("config watcher error", "path", m.path, "error", err)
		}
	}
}

func (m *Manager) reload() {
	cfg, err := LoadFromFile(m.path)
	if err != nil {
		m.log.Error("config reload failed, keeping current",
			"path", m.path, "error", err)
		return
	}

	m.current.Store(cfg)
	m.log.Info("configuration reloaded", "path", m.path)

	for _, fn := range m.onChange {
		fn(cfg)
	}
}

// Close stops the watcher. Idempotent with Watch's own ctx-driven shutdown.
func (m *Manager) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
