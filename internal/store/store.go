// Package store owns the JSON data file: it loads and persists the whole
// document and wraps every mutation in a load, mutate, save transaction held
// under a sentinel-file lock so concurrent processes never interleave.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/sakuraflow/internal/lock"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Store is the file-backed task document. Mutations go through Transaction;
// the read methods return copies of the last loaded snapshot, which may be
// stale until the next transaction or Reload.
type Store struct {
	path   string
	strict bool
	lock   *lock.Lock
	logger *log.Logger
	now    func() time.Time

	mu  sync.RWMutex
	doc *types.Document
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger for load, save and lock events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New validates cfg, prepares the lock at cfg.LockPath() and loads the data
// file. A missing or corrupt file yields an empty document.
func New(cfg types.Config, opts ...Option) (*Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		path:   cfg.DataPath,
		strict: cfg.StrictPersistence,
		logger: log.Default(),
		now:    time.Now,
		doc:    types.NewDocument(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lock = lock.New(cfg.LockPath(), cfg.LockTimeout, cfg.LockPollInterval)
	s.lock.SetLogger(s.logger)

	s.Load()
	return s, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// LockPath returns the sentinel file path.
func (s *Store) LockPath() string {
	return s.lock.Path()
}

// Load replaces the in-memory document with the file contents. A missing,
// unreadable or unparsable file resets the document to empty; the file is
// never touched.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

// Reload is Load under the name used by read-only callers that want a fresh
// snapshot without mutating.
func (s *Store) Reload() {
	s.Load()
}

func (s *Store) loadLocked() {
	doc, err := readDocument(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("data file unreadable, starting empty", "path", s.path, "err", err)
		}
		s.doc = types.NewDocument()
		return
	}
	s.doc = doc
}

// readDocument parses the data file at path.
func readDocument(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save writes the whole in-memory document over the data file. Write
// failures are logged and swallowed unless the store was configured with
// StrictPersistence, in which case they wrap types.ErrPersistence.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if err := writeDocument(s.path, s.doc); err != nil {
		if s.strict {
			return fmt.Errorf("%w: %w", types.ErrPersistence, err)
		}
		s.logger.Warn("save failed, changes not persisted", "path", s.path, "err", err)
	}
	return nil
}

// writeDocument atomically replaces path with the encoded document.
func writeDocument(path string, doc *types.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Transaction acquires the lock, reloads the file so writes by other actors
// are visible, runs fn against the document and saves it. If fn returns an
// error nothing is saved and the error is returned; the in-memory document
// may still hold fn's partial changes until the next Load. The lock is
// released on every exit path.
func (s *Store) Transaction(ctx context.Context, fn func(doc *types.Document) error) error {
	return s.lock.With(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.loadLocked()
		if err := fn(s.doc); err != nil {
			return err
		}
		return s.saveLocked()
	})
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (*types.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.doc.Tasks[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Has reports whether a task with the given ID exists in the snapshot.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.doc.Tasks[id]
	return ok
}

// Tasks returns copies of every task in ascending ID order.
func (s *Store) Tasks() []*types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.doc.Ordered()
	out := make([]*types.Task, len(ordered))
	for i, t := range ordered {
		out[i] = t.Clone()
	}
	return out
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() *types.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// DefaultTier returns the tier applied to new tasks.
func (s *Store) DefaultTier() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.DefaultTier
}

// NextID returns the ID the next AddTask will allocate.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.NextID
}

func (s *Store) timestamp() string {
	return types.FormatTime(s.now())
}
