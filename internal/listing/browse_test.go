package listing

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/domain"
)

func mountedBrowse(t *testing.T, e *env) *BrowseView {
	t.Helper()
	v, err := NewBrowseView(e.deps, DefaultLimit)
	require.NoError(t, err)
	require.NoError(t, v.Mount(context.Background()))
	t.Cleanup(v.Unmount)
	return v
}

func TestBrowseView_Pagination(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(20, owner)
	v := mountedBrowse(t, e)
	ctx := context.Background()

	st := v.State()
	assert.Equal(t, StateReady, st.State)
	assert.Len(t, st.Visible, 6)
	assert.Equal(t, 4, st.Pagination.TotalPages)
	assert.Equal(t, 20, st.Pagination.Total)
	assert.True(t, st.CanNext)
	assert.False(t, st.CanPrev)

	require.NoError(t, v.GoToPage(ctx, 4))
	st = v.State()
	assert.Equal(t, 4, st.Pagination.Page)
	assert.LessOrEqual(t, len(st.Visible), 6)
	assert.False(t, st.CanNext)
	assert.True(t, st.CanPrev)

	assert.ErrorIs(t, v.Next(ctx), domain.ErrNoNextPage)
	require.NoError(t, v.Prev(ctx))
	assert.Equal(t, 3, v.State().Pagination.Page)
}

func TestBrowseView_SetLimitResetsPage(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(20, owner)
	v := mountedBrowse(t, e)
	ctx := context.Background()

	require.NoError(t, v.GoToPage(ctx, 3))
	require.NoError(t, v.SetLimit(ctx, 9))

	st := v.State()
	assert.Equal(t, 1, st.Pagination.Page)
	assert.Equal(t, 9, st.Pagination.Limit)
	assert.Len(t, st.Visible, 9)
	assert.Equal(t, 3, st.Pagination.TotalPages)

	assert.ErrorIs(t, v.SetLimit(ctx, 12), domain.ErrValidation)
}

func TestBrowseView_FilterIsLocal(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(6, owner)
	v := mountedBrowse(t, e)
	before := e.srv.Requests("GET /posts")

	v.SetFilter(Filter{Type: TypeFound, Category: CategoryAll})
	visible := v.Visible()
	assert.Len(t, visible, 3)
	for _, l := range visible {
		assert.Equal(t, domain.PostTypeFound, l.PostType)
	}
	assert.Equal(t, 6, v.State().Loaded)
	assert.Equal(t, before, e.srv.Requests("GET /posts"))
}

func TestBrowseView_FailureKeepsPriorData(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(20, owner)
	v := mountedBrowse(t, e)
	first := v.Visible()

	e.srv.FailNext("GET /posts", http.StatusInternalServerError, "database down")
	err := v.GoToPage(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrUnavailable)

	st := v.State()
	assert.Equal(t, StateError, st.State)
	assert.ErrorIs(t, st.Err, domain.ErrUnavailable)
	assert.Equal(t, first, st.Visible)
	assert.Equal(t, 1, st.Pagination.Page, "page rolls back to the last applied request")
	assert.True(t, st.CanNext)

	n := e.lastNotice(t)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, MsgLoadPostsFailed, n.Message)

	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, StateReady, v.State().State)
}

func TestBrowseView_LatestRequestWins(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(20, owner)
	v := mountedBrowse(t, e)
	ctx := context.Background()

	hold := e.srv.HoldPage(2)
	slow := make(chan error, 1)
	go func() { slow <- v.GoToPage(ctx, 2) }()
	<-hold.Arrived()

	require.NoError(t, v.GoToPage(ctx, 3))
	hold.Release()
	assert.ErrorIs(t, <-slow, domain.ErrSuperseded)

	st := v.State()
	assert.Equal(t, 3, st.Pagination.Page)
	require.NotEmpty(t, st.Visible)
	assert.Equal(t, "post-13", st.Visible[0].ID)

	// superseded requests are not user-visible failures
	_, ok := e.notes.Last()
	assert.False(t, ok)
}

func TestBrowseView_UnmountDiscardsResponse(t *testing.T) {
	e := newEnv(t, "")
	e.srv.SeedN(20, owner)
	v, err := NewBrowseView(e.deps, DefaultLimit)
	require.NoError(t, err)
	require.NoError(t, v.Mount(context.Background()))

	hold := e.srv.HoldPage(2)
	done := make(chan error, 1)
	go func() { done <- v.GoToPage(context.Background(), 2) }()
	<-hold.Arrived()

	v.Unmount()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrUnmounted)
	case <-time.After(2 * time.Second):
		t.Fatal("request outlived unmount")
	}

	st := v.State()
	assert.Equal(t, StateIdle, st.State)
	assert.Zero(t, st.Loaded)
	assert.ErrorIs(t, v.Refresh(context.Background()), domain.ErrUnmounted)

	hold.Release()
	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 1, v.State().Pagination.Page)
	v.Unmount()
}
