// Package watch reports changes to graph files so that validation can be
// re-run while an export is being developed.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 100

// Config configures a Watcher.
type Config struct {
	// Debounce is how long to wait for more changes before emitting events.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`

	// Extensions lists the file extensions watched inside directories.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// DefaultConfig watches the graph formats the loader understands.
func DefaultConfig() Config {
	return Config{
		Debounce:   500 * time.Millisecond,
		Extensions: []string{".ttl", ".nt", ".owl", ".rdf", ".json"},
	}
}

// Op is the kind of change.
type Op string

// Change kinds.
const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
)

// Event is a debounced file change.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string
	Op   Op
}

// Watcher emits one event per changed file after a quiet period. Writes
// that leave the content unchanged are ignored.
type Watcher struct {
	config     Config
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool

	// files holds explicitly watched files; dirs holds watched directories
	// whose matching files are all of interest.
	mu    sync.RWMutex
	files map[string]bool
	dirs  map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	events        chan Event
	droppedEvents atomic.Int64
}

// New creates a watcher. Nothing is watched until Add is called.
func New(config Config, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}

	extensions := make(map[string]bool)
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultConfig().Extensions
	}
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	return &Watcher{
		config:     config,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Add watches paths. A file is watched through its parent directory; a
// directory is watched recursively for files with a configured extension.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if err := w.addDirRecursive(abs); err != nil {
				return err
			}
			continue
		}

		w.mu.Lock()
		w.files[abs] = true
		w.mu.Unlock()
		w.remember(abs)
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if w.extensions[strings.ToLower(filepath.Ext(path))] {
				w.remember(path)
			}
			return nil
		}
		if base := d.Name(); strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}

		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Start processes file system events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)

	w.logger.Info("Graph watcher started",
		"files", len(w.files),
		"dirs", len(w.dirs),
		"debounce", w.config.Debounce)
}

// Stop stops the watcher. The events channel is closed by the event loop.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped because the channel
// was full.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.inWatchedDir(path) {
				if err := w.addDirRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !w.interesting(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = w.pending[path] | event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Graph file change detected", "path", path, "op", event.Op.String())
}

// interesting reports whether path is an explicitly watched file or a file
// with a configured extension inside a watched directory.
func (w *Watcher) interesting(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) inWatchedDir(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirs[filepath.Dir(path)]
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := maps.Clone(w.pending)
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				w.forget(path)
				w.sendEvent(Event{Path: path, Op: OpDelete})
			} else {
				w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			}
			continue
		}

		newHash := contentHash(content)
		w.hashMu.Lock()
		oldHash, hadHash := w.hashes[path]
		w.hashes[path] = newHash
		w.hashMu.Unlock()

		switch {
		case hadHash && oldHash == newHash:
			continue
		case hadHash:
			w.sendEvent(Event{Path: path, Op: OpModify})
		default:
			w.sendEvent(Event{Path: path, Op: OpCreate})
		}
	}
}

// remember records the current content hash of path, if readable.
func (w *Watcher) remember(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	w.hashMu.Lock()
	w.hashes[path] = contentHash(content)
	w.hashMu.Unlock()
}

func (w *Watcher) forget(path string) {
	w.hashMu.Lock()
	delete(w.hashes, path)
	w.hashMu.Unlock()
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "path", event.Path, "op", event.Op)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
