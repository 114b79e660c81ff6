package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"voxum/internal/logging"
)

// ErrCorrupt reports that the backing store exists but could not be parsed.
// Callers must surface it rather than fall back to an empty registry, since
// an empty registry would silently re-deliver everything.
var ErrCorrupt = errors.New("processed registry corrupt")

// fileFormat is the on-disk shape: a mapping from processed input id to the
// UTC timestamp it finished. The whole file is rewritten on every mark.
type fileFormat struct {
	Processed map[string]time.Time `json:"processed"`
}

// Registry is the durable set of input identifiers that completed the full
// pipeline. It is safe for concurrent readers; writes are serialized.
type Registry struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]time.Time
}

// Option customizes registry construction.
type Option func(*Registry)

// WithClock overrides the timestamp source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Open loads the registry from path. A missing file yields an empty registry;
// an unreadable or unparsable file yields ErrCorrupt.
func Open(path string, logger *slog.Logger, opts ...Option) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("registry path is required")
	}
	logger = logging.NewComponentLogger(logger, "registry")

	r := &Registry{
		path:    path,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Contains reports whether id completed a full pipeline run, either in this
// process or in any earlier one whose mark survived in the backing store.
func (r *Registry) Contains(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.entries[id]
	return found
}

// Mark records id as processed and persists the full registry before
// returning. Marking an already-present id is a no-op.
func (r *Registry) Mark(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("input id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return nil
	}
	r.entries[id] = r.now().UTC()

	if err := r.save(); err != nil {
		// Keep memory and disk consistent so a later Mark retries the write.
		delete(r.entries, id)
		return fmt.Errorf("persist registry: %w", err)
	}

	r.logger.Debug("marked input processed",
		logging.String(logging.FieldInputID, id),
		logging.Int("entry_count", len(r.entries)))
	return nil
}

// Count returns the number of processed entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ProcessedAt returns the recorded completion time for id if present.
func (r *Registry) ProcessedAt(id string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.entries[strings.TrimSpace(id)]
	return ts, ok
}

// Path returns the backing store location.
func (r *Registry) Path() string {
	return r.path
}

func (r *Registry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("%w: read %s: %w", ErrCorrupt, r.path, err)
	}

	if len(data) == 0 {
		return nil
	}

	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrCorrupt, r.path, err)
	}

	r.entries = make(map[string]time.Time, len(parsed.Processed))
	for id, ts := range parsed.Processed {
		if strings.TrimSpace(id) != "" {
			r.entries[id] = ts
		}
	}

	r.logger.Debug("loaded processed registry",
		logging.Int("entry_count", len(r.entries)),
		logging.String("path", r.path))
	return nil
}

// save writes the registry to disk atomically.
func (r *Registry) save() error {
	out := fileFormat{Processed: r.entries}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
