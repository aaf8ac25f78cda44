package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartfdx/authgate/internal/api/metrics"
	"github.com/smartfdx/authgate/internal/core/domain"
	"github.com/smartfdx/authgate/internal/core/ports"
)

// GuardState enumerates the states of the session guard.
type GuardState string

const (
	StateInitializing    GuardState = "initializing"
	StateUnauthenticated GuardState = "unauthenticated"
	StateAuthenticated   GuardState = "authenticated"
	StateRedirectPending GuardState = "redirect_pending"
)

// GuardDecision is the outcome of a single guard check.
type GuardDecision struct {
	// Allow grants access to the protected view.
	Allow bool
	// RedirectTo is the login navigation target, set on at most one
	// decision per unchanged underlying state.
	RedirectTo string
	// State is the guard state after the check.
	State GuardState
	// Session is the validated auth state, present when Allow is true.
	Session *domain.PersistedAuthState
}

// Guard is the access gate for one session context. It re-implements the
// checks that used to be scattered across several call sites as a single
// state machine: Initializing → {Authenticated, Unauthenticated} →
// RedirectPending. A latch guarantees that repeated checks against
// unchanged state produce at most one redirect; the latch resets on any
// state change.
//
// All uncertainty fails closed: a malformed token, an unreadable store,
// or a corrupt record all read as Unauthenticated.
type Guard struct {
	sessions ports.SessionManager

	mu        sync.Mutex
	state     GuardState
	latched   bool
	sessionID string
	lastSeen  time.Time
}

// NewGuard returns a guard in the Initializing state.
func NewGuard(sessions ports.SessionManager) *Guard {
	return &Guard{sessions: sessions, state: StateInitializing}
}

// State reports the current guard state.
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Evaluate runs one guard check for a view at path. Views that do not
// require auth bypass the machine entirely and are allowed immediately.
func (g *Guard) Evaluate(ctx context.Context, token, path, loginPath string, authRequired bool) GuardDecision {
	if !authRequired {
		return GuardDecision{Allow: true, State: g.State()}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastSeen = time.Now()

	state, err := g.sessions.Validate(ctx, token)
	if err != nil || state == nil {
		g.setState(StateUnauthenticated)
		return g.denyLocked(path, loginPath)
	}

	// Valid session: extend the activity window. A touch failure is not
	// fatal as long as the loaded state itself is live.
	g.sessionID = state.Session.ID
	if touched, terr := g.sessions.Touch(ctx, state.Session.ID); terr == nil && touched != nil {
		state = touched
	}

	g.setState(StateAuthenticated)
	return GuardDecision{Allow: true, State: StateAuthenticated, Session: state}
}

// denyLocked computes the redirect decision while holding g.mu.
func (g *Guard) denyLocked(path, loginPath string) GuardDecision {
	if g.latched {
		return GuardDecision{Allow: false, State: g.state}
	}

	g.setState(StateRedirectPending)
	g.latched = true
	return GuardDecision{
		Allow:      false,
		RedirectTo: loginTarget(loginPath, path),
		State:      StateRedirectPending,
	}
}

// Expire forces the guard out of Authenticated after its session lapsed.
func (g *Guard) Expire() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setState(StateUnauthenticated)
}

// setState transitions the machine and releases the redirect latch when
// the state actually changes. Callers hold g.mu.
func (g *Guard) setState(next GuardState) {
	if g.state != next {
		if !(g.state == StateRedirectPending && next == StateUnauthenticated) {
			// Pending → Unauthenticated keeps the latch: the redirect
			// for this denial was already issued.
			g.latched = false
		}
		g.state = next
	}
}

// loginTarget appends the originally requested path as a return
// parameter on the login route.
func loginTarget(loginPath, path string) string {
	if path == "" {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(path)
}

// GuardSet owns one Guard per live session and runs the background
// expiry sweep over them.
type GuardSet struct {
	sessions ports.SessionManager
	logger   zerolog.Logger

	mu     sync.Mutex
	guards map[string]*Guard
}

func NewGuardSet(sessions ports.SessionManager, logger zerolog.Logger) *GuardSet {
	return &GuardSet{
		sessions: sessions,
		logger:   logger,
		guards:   make(map[string]*Guard),
	}
}

// For returns the guard tracking the given session ID, creating one in
// Initializing if needed. An empty ID gets an untracked guard: anonymous
// viewers have no session state to share a latch over.
func (s *GuardSet) For(sessionID string) *Guard {
	if sessionID == "" {
		return NewGuard(s.sessions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.guards[sessionID]; ok {
		return g
	}
	g := NewGuard(s.sessions)
	g.sessionID = sessionID
	s.guards[sessionID] = g
	return g
}

// Drop forgets the guard for a closed session.
func (s *GuardSet) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guards, sessionID)
}

// Run re-validates tracked guards on a repeating timer until ctx is
// cancelled. Sessions found expired are cleared from the store and their
// guards flipped to Unauthenticated; guards idle past the retention
// window are evicted so the set cannot grow without bound.
func (s *GuardSet) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, 4*interval)
		}
	}
}

func (s *GuardSet) sweep(ctx context.Context, retain time.Duration) {
	s.mu.Lock()
	tracked := make(map[string]*Guard, len(s.guards))
	for id, g := range s.guards {
		tracked[id] = g
	}
	s.mu.Unlock()

	now := time.Now()
	for id, g := range tracked {
		g.mu.Lock()
		idle := now.Sub(g.lastSeen)
		authenticated := g.state == StateAuthenticated
		g.mu.Unlock()

		if idle > retain {
			s.Drop(id)
			continue
		}
		if !authenticated {
			continue
		}

		_, err := s.sessions.Peek(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			// Infrastructure trouble, not expiry. Leave the guard
			// alone; the next request fails closed on its own.
			s.logger.Warn().Err(err).Str("session_id", id).Msg("session sweep check failed")
			continue
		}

		// The store already dropped the lapsed record on load, so the
		// close below cannot account for it.
		g.Expire()
		metrics.SessionsActive.Dec()
		if err := s.sessions.Close(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("failed to clear expired session")
		}
	}
}
