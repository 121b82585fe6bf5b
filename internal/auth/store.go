package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/validator"
)

// Listener observes session transitions. Listeners run synchronously in
// subscription order. An error from a listener during sign-in aborts the
// sign-in.
type Listener func(ctx context.Context, ev domain.SessionEvent) error

// StoreOptions configures a Store.
type StoreOptions struct {
	// RevokeOnClose signs the provider session out when the store closes.
	RevokeOnClose bool
	Validator     *validator.Validator
	Logger        *slog.Logger
}

type subscription struct {
	id uint64
	fn Listener
}

// Store is the single process-wide session. Views read it through
// domain.SessionReader.
type Store struct {
	provider domain.IdentityProvider
	validate *validator.Validator
	logger   *slog.Logger
	revoke   bool

	// transition serializes sign-in and sign-out, listeners included
	transition sync.Mutex

	mu        sync.RWMutex
	session   *domain.Session
	loading   bool
	closed    bool
	nextID    uint64
	listeners []subscription
}

var _ domain.SessionReader = (*Store)(nil)

// NewStore creates a signed-out store.
func NewStore(provider domain.IdentityProvider, opts StoreOptions) *Store {
	v := opts.Validator
	if v == nil {
		v = validator.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: provider,
		validate: v,
		logger:   logger,
		revoke:   opts.RevokeOnClose,
	}
}

// Subscribe registers l and returns its unsubscribe func.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Current returns the signed-in identity.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Identity{}, false
	}
	return s.session.Identity, true
}

// Loading reports whether a session transition is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token returns the provider session token.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return "", false
	}
	return s.session.Token, true
}

// SignIn signs in with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	return s.signIn(ctx, func() (*domain.Session, error) {
		return s.provider.SignIn(ctx, email, password)
	})
}

// SignInWithProvider signs in with a federated ID token.
func (s *Store) SignInWithProvider(ctx context.Context, provider, idToken string) (domain.Identity, error) {
	return s.signIn(ctx, func() (*domain.Session, error) {
		return s.provider.SignInWithProvider(ctx, provider, idToken)
	})
}

// SignUp validates the registration form, creates the account and signs in.
func (s *Store) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.Identity, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Identity{}, err
	}
	return s.signIn(ctx, func() (*domain.Session, error) {
		return s.provider.SignUp(ctx, req)
	})
}

func (s *Store) signIn(ctx context.Context, authenticate func() (*domain.Session, error)) (domain.Identity, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.begin(); err != nil {
		return domain.Identity{}, err
	}
	defer s.end()

	session, err := authenticate()
	if err != nil {
		return domain.Identity{}, err
	}

	// a new sign-in replaces the current session
	if err := s.signOutLocked(ctx); err != nil {
		s.logger.WarnContext(ctx, "ending previous session failed", "error", err)
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	current := session.Identity
	if err := s.notify(ctx, domain.SessionEvent{Current: &current}); err != nil {
		s.logger.WarnContext(ctx, "session listener rejected sign-in, rolling back", "email", current.Email, "error", err)
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		if rerr := s.provider.SignOut(context.WithoutCancel(ctx), session.Token); rerr != nil {
			s.logger.WarnContext(ctx, "revoking rejected session failed", "error", rerr)
		}
		_ = s.notify(ctx, domain.SessionEvent{Previous: &current})
		return domain.Identity{}, fmt.Errorf("completing sign-in: %w", err)
	}

	s.logger.DebugContext(ctx, "signed in", "email", current.Email)
	return current, nil
}

// SignOut ends the session. Signing out while signed out is a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	return s.signOutLocked(ctx)
}

// signOutLocked clears the session, notifies listeners and revokes the
// provider session. Callers hold s.transition.
func (s *Store) signOutLocked(ctx context.Context) error {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()
	if prev == nil {
		return nil
	}

	previous := prev.Identity
	errs := []error{s.notify(ctx, domain.SessionEvent{Previous: &previous})}
	if err := s.provider.SignOut(ctx, prev.Token); err != nil {
		errs = append(errs, fmt.Errorf("revoking session: %w", err))
	}
	s.logger.DebugContext(ctx, "signed out", "email", previous.Email)
	return errors.Join(errs...)
}

// UpdateProfile changes the display name and photo of the signed-in user.
func (s *Store) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Identity, error) {
	if err := s.validate.Struct(update); err != nil {
		return domain.Identity{}, err
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	if session == nil {
		return domain.Identity{}, domain.ErrNotSignedIn
	}

	id, err := s.provider.UpdateProfile(ctx, session.Token, update)
	if err != nil {
		return domain.Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.Token == session.Token {
		s.session.Identity = *id
	}
	return *id, nil
}

// Close tears the store down at process exit. With RevokeOnClose the
// provider session is signed out first.
func (s *Store) Close(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var err error
	if s.revoke {
		err = s.signOutLocked(ctx)
	}

	s.mu.Lock()
	s.closed = true
	s.listeners = nil
	s.mu.Unlock()
	return err
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session store closed")
	}
	s.loading = true
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// notify runs listeners in order. Every listener runs; errors are joined.
func (s *Store) notify(ctx context.Context, ev domain.SessionEvent) error {
	s.mu.RLock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.fn(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
