// Package lock provides an advisory cross-process lock backed by a sentinel
// file. The sentinel is created exclusively; its existence means "held".
// There is no staleness detection: a crashed holder leaves the sentinel in
// place until an operator clears it with ForceClear.
package lock

import (
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
	"github.com/google/uuid"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// ErrTimeout is returned by Acquire when the timeout elapses. It wraps
// types.ErrLockTimeout.
var ErrTimeout = fmt.Errorf("lock: %w", types.ErrLockTimeout)

// Holder describes the owner recorded in a sentinel file.
type Holder struct {
	Token      string    `json:"token"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Lock is a sentinel-file mutex. A Lock value may be shared by goroutines;
// only one of them holds it at a time.
type Lock struct {
	path    string
	timeout time.Duration
	poll    time.Duration
	logger  *log.Logger

	mu    sync.Mutex
	token string // non-empty while held
}

// New returns a Lock on path. Zero timeout or poll use the package defaults.
func New(path string, timeout, poll time.Duration) *Lock {
	if timeout <= 0 {
		timeout = types.DefaultLockTimeout
	}
	if poll <= 0 {
		poll = types.DefaultLockPollInterval
	}
	return &Lock{
		path:    path,
		timeout: timeout,
		poll:    poll,
		logger:  log.Default(),
	}
}

// SetLogger replaces the logger used for wait and release events.
func (l *Lock) SetLogger(logger *log.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Path returns the sentinel path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire blocks until the sentinel is created by this caller, the timeout
// elapses (ErrTimeout) or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating lock dir: %w", err)
	}

	deadline := time.Now().Add(l.timeout)
	waited := false
	for {
		token, err := l.tryCreate()
		if err == nil {
			l.mu.Lock()
			l.token = token
			l.mu.Unlock()
			if waited {
				l.logger.Debug("lock acquired after wait", "path", l.path)
			}
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("creating lock sentinel: %w", err)
		}
		if !time.Now().Before(deadline) {
			l.logger.Warn("lock wait timed out", "path", l.path, "timeout", l.timeout)
			return fmt.Errorf("%w: %s after %s", ErrTimeout, l.path, l.timeout)
		}
		if !waited {
			l.logger.Debug("lock busy, waiting", "path", l.path)
			waited = true
		}

		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryCreate makes one exclusive-create attempt and records the holder.
func (l *Lock) tryCreate() (string, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := Holder{
		Token:      uuid.NewString(),
		PID:        os.Getpid(),
		AcquiredAt: time.Now(),
	}
	// The sentinel's existence is the lock; the payload is informational.
	_ = json.NewEncoder(f).Encode(h)
	return h.Token, nil
}

// Release removes the sentinel if this Lock holds it. Releasing an unheld
// lock is a no-op.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return nil
	}
	l.token = ""
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("removing lock sentinel", "path", l.path, "err", err)
	}
	return nil
}

// Held reports whether this Lock currently owns the sentinel.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token != ""
}

// With acquires the lock, runs fn and releases the lock on every exit path,
// including a panic in fn.
func (l *Lock) With(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// Inspect reads the holder recorded in the sentinel at path. It returns
// fs.ErrNotExist (wrapped) when the lock is free.
func Inspect(path string) (Holder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, fmt.Errorf("reading lock sentinel: %w", err)
	}
	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return Holder{}, fmt.Errorf("parsing lock sentinel: %w", err)
	}
	return h, nil
}

// ForceClear removes a sentinel left behind by a crashed holder. It reports
// whether a sentinel was present.
func ForceClear(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("removing lock sentinel: %w", err)
}
