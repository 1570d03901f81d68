package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
	"github.com/02loveslollipop/parkmap/services/api/metrics"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type registryEntry struct {
	session  *Session
	loop     *Loop
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Registry owns the live sessions, each running on its own loop.
type Registry struct {
	store *locations.Store
	opts  Options
	idle  time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

// NewRegistry creates a registry. Sessions untouched for idle are reaped; zero disables reaping.
func NewRegistry(store *locations.Store, opts Options, idle time.Duration) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

// Create starts a new session loop.
func (r *Registry) Create() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(256)
	sess := NewSession(ctx, uuid.NewString(), r.store, loop, r.opts)
	go loop.Run(ctx)

	r.mu.Lock()
	r.sessions[sess.ID()] = &registryEntry{session: sess, loop: loop, cancel: cancel, lastSeen: r.now()}
	r.mu.Unlock()

	metrics.SessionsActive.Inc()
	return sess
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Touch marks a session as used.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
	}
}

// Remove stops a session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.cancel()
	e.loop.Stop()
	metrics.SessionsActive.Dec()
	logger.L().Info("session_stopped", "session_id", id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap stops sessions idle for longer than the idle timeout.
func (r *Registry) Reap() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var expired []string
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range expired {
		if r.Remove(id) == nil {
			n++
		}
	}
	return n
}

// Run reaps idle sessions until ctx is done, then stops every session.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			if n := r.Reap(); n > 0 {
				logger.L().Info("sessions_reaped", "count", n)
			}
		}
	}
}

// CloseAll stops every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_ = r.Remove(id)
	}
}
