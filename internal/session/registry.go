package session

import (
	"context"
	"sync"
	"time"

	"insurance-dashboard/internal/presentation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned for unknown, ended, or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// End reasons reported to the Observer.
const (
	ReasonEnded          = "ended"
	ReasonExpired        = "expired"
	ReasonOrderViolation = "order_violation"
)

// Observer receives session lifecycle events. *metrics.Metrics satisfies it.
type Observer interface {
	SessionCreated()
	SessionEnded(reason string)
}

// BootstrapFunc is run on every new session before it is handed out.
type BootstrapFunc func(presentation.PresentationHost) error

// BootstrapError reports that a new session's bootstrap ran and failed.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string { return "bootstrap session: " + e.Err.Error() }

func (e *BootstrapError) Unwrap() error { return e.Err }

type nopObserver struct{}

func (nopObserver) SessionCreated()     {}
func (nopObserver) SessionEnded(string) {}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithPurgeInterval sets how often StartPurge sweeps expired sessions.
func WithPurgeInterval(d time.Duration) Option {
	return func(r *Registry) { r.purgeInterval = d }
}

// Registry is a thread-safe in-memory store of dashboard sessions with idle expiry.
type Registry struct {
	ttl           time.Duration
	purgeInterval time.Duration
	bootstrap     BootstrapFunc
	observer      Observer
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*presentation.Session
}

// NewRegistry builds a registry whose sessions expire after ttl of inactivity.
func NewRegistry(ttl time.Duration, bootstrap BootstrapFunc, opts ...Option) *Registry {
	r := &Registry{
		ttl:           ttl,
		purgeInterval: 5 * time.Minute,
		bootstrap:     bootstrap,
		observer:      nopObserver{},
		now:           time.Now,
		sessions:      make(map[string]*presentation.Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a session and runs the bootstrap on it as its first action. A session
// whose bootstrap fails is discarded and never registered; the failure is returned as
// a *BootstrapError.
func (r *Registry) Create(ctx context.Context) (*presentation.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := presentation.NewSession(uuid.NewString(), r.now())
	if r.bootstrap != nil {
		if err := r.bootstrap(s); err != nil {
			return nil, &BootstrapError{Err: err}
		}
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	r.observer.SessionCreated()
	return s, nil
}

// Get returns a live session and marks it as seen.
func (r *Registry) Get(id string) (*presentation.Session, error) {
	now := r.now()

	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok && r.expired(s, now) {
		delete(r.sessions, id)
		r.mu.Unlock()
		r.observer.SessionEnded(ReasonExpired)
		return nil, ErrSessionNotFound
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch(now)
	return s, nil
}

// End removes a session. reason is reported to the observer.
func (r *Registry) End(id, reason string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	r.observer.SessionEnded(reason)
	return nil
}

// Len returns the number of registered sessions, expired ones included until purged.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Purge removes every expired session and returns how many were removed.
func (r *Registry) Purge() int {
	now := r.now()

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	for i := 0; i < removed; i++ {
		r.observer.SessionEnded(ReasonExpired)
	}
	return removed
}

// StartPurge starts a background goroutine that evicts expired sessions until ctx
// is cancelled.
func (r *Registry) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Purge()
			}
		}
	}()
}

func (r *Registry) expired(s *presentation.Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.LastSeen()) > r.ttl
}
