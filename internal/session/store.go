// Package session owns the authenticated session: who is signed in, the
// access token attached to data requests, and an identity-changed
// notification stream. The store is constructed explicitly and injected
// wherever it is needed; there is no package-level singleton.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/gyansetu/internal/backend"
	"github.com/abhisek/gyansetu/internal/portal"
)

// ErrInvalidCredentials is returned for any sign-in failure. Callers render
// it as a single generic message; the store does not distinguish a bad
// password from an unknown account.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Store tracks the current identity and session.
type Store struct {
	client    *backend.Client
	statePath string

	mu      sync.Mutex
	session backend.Session
	current *portal.Identity

	subsMu  sync.Mutex
	nextSub int
	subs    map[int]func(*portal.Identity)
}

// NewStore creates a session store over client, persisting session state at
// statePath.
func NewStore(client *backend.Client, statePath string) *Store {
	return &Store{
		client:    client,
		statePath: statePath,
		subs:      make(map[int]func(*portal.Identity)),
	}
}

// RegisterInput is everything collected on the registration form.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     portal.Role
	School   string
}

// Start restores a persisted session if one exists and is still valid, then
// resolves the identity row. Any failure along the way leaves the store
// unauthenticated; a stale or unresolvable session is not an error the
// caller can act on.
func (s *Store) Start(ctx context.Context) error {
	sess, ok, err := readState(s.statePath)
	if err != nil || !ok {
		return err
	}

	// The token's own claims, not the stored fields, say whose session
	// this is and when it ends. An unparseable token is treated the same
	// as an expired one.
	sub, exp, err := backend.TokenSubject(sess.AccessToken)
	if err != nil {
		return clearState(s.statePath)
	}
	sess.UserID = sub
	if !exp.IsZero() {
		sess.ExpiresAt = exp
	}
	if sess.Expired() {
		return clearState(s.statePath)
	}

	ident, err := s.resolveIdentity(ctx, sess)
	if err != nil {
		// Unresolvable identity (network error, missing profile row)
		// degrades to signed-out.
		s.set(backend.Session{}, nil)
		return nil
	}
	s.set(sess, &ident)
	return nil
}

// SignIn authenticates and resolves the identity. Every failure surfaces as
// ErrInvalidCredentials.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return ErrInvalidCredentials
	}
	ident, err := s.resolveIdentity(ctx, sess)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := writeState(s.statePath, sess); err != nil {
		return err
	}
	s.set(sess, &ident)
	return nil
}

// Register signs up a new account and inserts its profile row, then signs
// the user in.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	sess, err := s.client.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	ident := portal.Identity{
		ID:       sess.UserID,
		Email:    in.Email,
		FullName: in.FullName,
		Role:     in.Role,
		School:   in.School,
		Language: "en",
	}
	if err := s.createIdentity(ctx, sess, ident); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := writeState(s.statePath, sess); err != nil {
		return err
	}
	s.set(sess, &ident)
	return nil
}

// SignOut invalidates the provider session, clears persisted state, and
// notifies subscribers. The local session is cleared even when the provider
// call fails.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.session.AccessToken
	s.mu.Unlock()

	var err error
	if token != "" {
		err = s.client.SignOut(ctx, token)
	}
	if clearErr := clearState(s.statePath); clearErr != nil && err == nil {
		err = clearErr
	}
	s.set(backend.Session{}, nil)
	return err
}

// Current returns the signed-in identity, or nil.
func (s *Store) Current() *portal.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the access token for data requests, or "" when signed out.
// It satisfies portal.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccessToken
}

// Subscribe registers fn to run on every identity change (sign-in, sign-out,
// session restore). The returned cancel function removes the registration
// and is safe to call more than once.
func (s *Store) Subscribe(fn func(*portal.Identity)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) set(sess backend.Session, ident *portal.Identity) {
	s.mu.Lock()
	s.session = sess
	s.current = ident
	s.mu.Unlock()

	s.subsMu.Lock()
	fns := make([]func(*portal.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

// resolveIdentity reads the profile row for the session's user with the
// session's own token.
func (s *Store) resolveIdentity(ctx context.Context, sess backend.Session) (portal.Identity, error) {
	var ident portal.Identity
	err := s.client.From("users", sess.AccessToken).
		Eq("id", sess.UserID).
		Single().
		Get(ctx, &ident)
	return ident, err
}

func (s *Store) createIdentity(ctx context.Context, sess backend.Session, ident portal.Identity) error {
	return s.client.From("users", sess.AccessToken).Insert(ctx, ident, nil)
}
