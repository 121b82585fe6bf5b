package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/api"
	"github.com/whereisit-project/whereisit/internal/apitest"
	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/logger"
	"github.com/whereisit-project/whereisit/internal/validator"
)

const (
	owner    = "ana@example.com"
	stranger = "bo@example.com"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSession struct {
	id *domain.Identity
}

func signedIn(email, name string) fakeSession {
	return fakeSession{id: &domain.Identity{Email: email, DisplayName: name, PhotoURL: "https://img.example.com/me.png"}}
}

func (f fakeSession) Current() (domain.Identity, bool) {
	if f.id == nil {
		return domain.Identity{}, false
	}
	return *f.id, true
}

func (fakeSession) Loading() bool { return false }

type env struct {
	srv    *apitest.Server
	client *api.Client
	notes  *Recorder
	deps   Deps
}

// newEnv starts a fake backend with a client logged in as email. An empty
// email leaves the client and session signed out.
func newEnv(t *testing.T, email string) *env {
	t.Helper()
	srv := apitest.NewServer(t)
	client, err := api.New(api.Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Logger: logger.Discard()})
	require.NoError(t, err)

	session := fakeSession{}
	if email != "" {
		require.NoError(t, client.Login(context.Background(), email))
		session = signedIn(email, "Ana Lima")
	}

	notes := &Recorder{}
	now := func() time.Time { return testNow }
	return &env{
		srv:    srv,
		client: client,
		notes:  notes,
		deps: Deps{
			API:       client,
			Session:   session,
			Notifier:  notes,
			Validator: validator.New(validator.WithClock(now)),
			Logger:    logger.Discard(),
			Now:       now,
		},
	}
}

func (e *env) lastNotice(t *testing.T) Notice {
	t.Helper()
	n, ok := e.notes.Last()
	require.True(t, ok, "expected a notice")
	return n
}

func validDraft() Draft {
	return Draft{
		Title:       "Lost wallet",
		Description: "Brown leather wallet",
		Location:    "Central station",
		Category:    domain.CategoryWallets,
		Thumbnail:   "https://img.example.com/wallet.png",
		PostType:    domain.PostTypeLost,
		Date:        testNow.AddDate(0, 0, -1),
	}
}
