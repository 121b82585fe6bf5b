package listing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/api"
	"github.com/whereisit-project/whereisit/internal/domain"
)

func TestRecentView(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(9, owner)
	v := NewRecentView(e.deps)
	t.Cleanup(v.Unmount)

	require.NoError(t, v.Load(context.Background()))
	posts := v.Posts()
	require.Len(t, posts, RecentCount)
	assert.Equal(t, "post-01", posts[0].ID)

	e.srv.FailNext("GET /posts", http.StatusBadGateway, "")
	require.Error(t, v.Load(context.Background()))
	state, err := v.State()
	assert.Equal(t, StateError, state)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Len(t, v.Posts(), RecentCount)

	v.Unmount()
	assert.Empty(t, v.Posts())
}

func TestRecoveredView(t *testing.T) {
	e := newEnv(t, stranger)
	e.srv.SeedN(2, owner)
	d := loadedDetail(t, e, "post-02")
	require.NoError(t, d.Claim(context.Background(), validClaim()))

	v := NewRecoveredView(e.deps)
	t.Cleanup(v.Unmount)
	require.NoError(t, v.Load(context.Background()))
	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "post-02", items[0].PostID)
	assert.Equal(t, domain.PostTypeFound, items[0].OriginalPost.PostType)
}

func TestRecoveredView_SessionExpired(t *testing.T) {
	e := newEnv(t, owner)
	e.srv.ExpireSessions()
	v := NewRecoveredView(e.deps)
	t.Cleanup(v.Unmount)

	err := v.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, MsgSessionGone, e.lastNotice(t).Message)
}

func TestUserMessage(t *testing.T) {
	rejected := &api.Error{Op: "delete", StatusCode: 400, Message: "You can only delete your own posts", Err: domain.ErrRejected}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "server message verbatim", err: fmt.Errorf("delete: %w", rejected), want: "You can only delete your own posts"},
		{name: "rejected without message", err: &api.Error{Op: "x", StatusCode: 400, Err: domain.ErrRejected}, want: "fallback"},
		{name: "not found", err: &api.Error{Op: "x", StatusCode: 404, Err: domain.ErrNotFound}, want: MsgNotFound},
		{name: "unauthorized", err: &api.Error{Op: "x", StatusCode: 401, Message: "unauthorized access", Err: domain.ErrUnauthorized}, want: MsgSessionGone},
		{name: "unavailable", err: &api.Error{Op: "x", StatusCode: 503, Message: "db down", Err: domain.ErrUnavailable}, want: "fallback"},
		{name: "unknown", err: errors.New("boom"), want: "fallback"},
		{name: "no changes", err: domain.ErrNoChanges, want: MsgNoChanges},
		{name: "already recovered", err: domain.ErrAlreadyRecovered, want: MsgRecovered},
		{name: "signed out", err: domain.ErrNotSignedIn, want: MsgSignInFirst},
		{name: "in flight", err: domain.ErrInFlight, want: MsgInFlight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "fallback"))
		})
	}
}
