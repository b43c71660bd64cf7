// Package session keeps one cart and one checkout per browser session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/cart"
	"github.com/Gsweya/hweibo-prototype/internal/checkout"
)

const (
	DefaultIdleTTL         = 30 * time.Minute
	DefaultJanitorInterval = time.Minute
)

type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Orchestrator
	Badge    *cart.Badge

	lastSeen atomic.Int64
	cleanup  []func()
}

// OnTeardown registers fn to run when the session is removed.
func (s *Session) OnTeardown(fn func()) {
	s.cleanup = append(s.cleanup, fn)
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) teardown() {
	s.Checkout.Cancel()
	s.Badge.Detach()
	for _, fn := range s.cleanup {
		fn()
	}
}

type Config struct {
	IdleTTL         time.Duration
	JanitorInterval time.Duration
	// Checkout builds the options for each new session's orchestrator.
	Checkout func(id string) checkout.Options
	// OnCreate runs once for every new session before it is handed out.
	OnCreate func(*Session)
	Now      func() time.Time
	Logger   *slog.Logger
}

type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = DefaultJanitorInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Registry{cfg: cfg, sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use, and marks it as
// recently seen.
func (r *Registry) Get(id string) *Session {
	now := r.cfg.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s
	}

	store := cart.NewStore()
	var opts checkout.Options
	if r.cfg.Checkout != nil {
		opts = r.cfg.Checkout(id)
	}
	if opts.Logger == nil {
		opts.Logger = r.cfg.Logger
	}
	opts.Logger = opts.Logger.With(slog.String("session_id", id))

	s := &Session{
		ID:       id,
		Cart:     store,
		Checkout: checkout.New(store, opts),
		Badge:    cart.NewBadge(store),
	}
	s.touch(now)
	if r.cfg.OnCreate != nil {
		r.cfg.OnCreate(s)
	}
	r.sessions[id] = s
	return s
}

// Find returns an existing session and marks it as recently seen, without
// creating one.
func (r *Registry) Find(id string) (*Session, bool) {
	now := r.cfg.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.touch(now)
	}
	return s, ok
}

// Lookup returns an existing session without creating or touching it.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many it
// removed. A session with a checkout in flight is never idle.
func (r *Registry) Sweep() int {
	cutoff := r.cfg.Now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.Checkout.Status().InFlight() || s.LastSeen().After(cutoff) {
			continue
		}
		expired = append(expired, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.teardown()
	}
	if len(expired) > 0 {
		r.cfg.Logger.Info("Expired idle sessions", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every JanitorInterval until ctx is done, then tears down every
// remaining session.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close tears down all sessions, cancelling any checkout still in flight.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.teardown()
	}
}
