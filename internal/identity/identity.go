// Package identity wraps the external identity provider behind a thin
// gateway: sign-in/sign-out, the current principal, and an explicit
// subscription interface for auth-state changes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/validation"
)

// Auth failure taxonomy. Provider-specific codes outside it surface as *AuthError.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user disabled")
	ErrInvalidEmail       = errors.New("invalid email")
)

// AuthError carries a provider-supplied failure outside the known taxonomy.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth failure %s: %s", e.Code, e.Message)
	}
	return "auth failure " + e.Code
}

// Principal is the authenticated identity exposed to the rest of the system.
type Principal struct {
	ID        string
	Email     string
	Token     string    // provider-issued token, if any
	ExpiresAt time.Time // zero means non-expiring
}

// Provider authenticates credentials against an identity service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Principal, error)
}

// signOuter is implemented by providers with server-side session revocation.
type signOuter interface {
	SignOut(ctx context.Context, p *Principal) error
}

// Gateway holds the current principal and fans auth-state changes out to
// subscribers. It delivers a principal on sign-in and nil on sign-out or
// token expiry, so externally-expired sessions are observed too.
type Gateway struct {
	provider Provider
	timeout  time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	current *Principal
	subs    map[int]func(*Principal)
	nextSub int
	expiry  *time.Timer
}

// NewGateway wraps a provider. Every provider call is bounded by timeout so
// a hung identity service cannot block a login attempt forever.
func NewGateway(p Provider, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Gateway{provider: p, timeout: timeout, log: log, subs: map[int]func(*Principal){}}
}

// SignIn validates the email shape locally before any provider call, then
// authenticates and publishes the new principal to subscribers.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	p, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.current = p
	g.scheduleExpiryLocked(p)
	subs := g.snapshotSubsLocked()
	g.mu.Unlock()
	for _, fn := range subs {
		fn(p)
	}
	return p, nil
}

// SignOut clears the current principal and notifies subscribers. Provider
// revocation failures are logged, never surfaced as blocking errors.
func (g *Gateway) SignOut(ctx context.Context) {
	g.mu.Lock()
	p := g.current
	g.current = nil
	g.stopExpiryLocked()
	subs := g.snapshotSubsLocked()
	g.mu.Unlock()
	if p != nil {
		if so, ok := g.provider.(signOuter); ok {
			ctx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			if err := so.SignOut(ctx, p); err != nil {
				g.log.Warn().Err(err).Msg("provider sign-out failed")
			}
		}
	}
	for _, fn := range subs {
		fn(nil)
	}
}

// Current returns the signed-in principal, or nil.
func (g *Gateway) Current() *Principal {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	p := *g.current
	return &p
}

// Subscribe registers fn for auth-state changes and returns its unsubscribe
// function. Registration and teardown are explicit; there is no implicit
// listener wiring.
func (g *Gateway) Subscribe(fn func(*Principal)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *Gateway) snapshotSubsLocked() []func(*Principal) {
	out := make([]func(*Principal), 0, len(g.subs))
	for _, fn := range g.subs {
		out = append(out, fn)
	}
	return out
}

// scheduleExpiryLocked arms a timer that clears the principal when its token
// expires, covering sessions the provider expired on its side.
func (g *Gateway) scheduleExpiryLocked(p *Principal) {
	g.stopExpiryLocked()
	if p == nil || p.ExpiresAt.IsZero() {
		return
	}
	id := p.ID
	g.expiry = time.AfterFunc(time.Until(p.ExpiresAt), func() { g.expire(id) })
}

func (g *Gateway) stopExpiryLocked() {
	if g.expiry != nil {
		g.expiry.Stop()
		g.expiry = nil
	}
}

func (g *Gateway) expire(principalID string) {
	g.mu.Lock()
	if g.current == nil || g.current.ID != principalID {
		g.mu.Unlock()
		return
	}
	g.current = nil
	g.expiry = nil
	subs := g.snapshotSubsLocked()
	g.mu.Unlock()
	g.log.Info().Str("principal", principalID).Msg("session expired")
	for _, fn := range subs {
		fn(nil)
	}
}
