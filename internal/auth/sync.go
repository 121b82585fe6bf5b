package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// BackendSync mirrors session transitions to the listing API's cookie
// session: sign-in opens it, sign-out closes it.
type BackendSync struct {
	backend domain.BackendSession
	logger  *slog.Logger
}

// NewBackendSync creates the listener for backend.
func NewBackendSync(backend domain.BackendSession, logger *slog.Logger) *BackendSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackendSync{backend: backend, logger: logger}
}

// Listener returns the store listener.
func (b *BackendSync) Listener() Listener {
	return b.handle
}

func (b *BackendSync) handle(ctx context.Context, ev domain.SessionEvent) error {
	switch {
	case ev.SignedIn():
		if err := b.backend.Login(ctx, ev.Current.Email); err != nil {
			return fmt.Errorf("opening backend session: %w", err)
		}
	case ev.SignedOut():
		// sign-out always completes locally
		if err := b.backend.Logout(ctx); err != nil {
			b.logger.WarnContext(ctx, "closing backend session failed", "error", err)
		}
	}
	return nil
}
