package listing

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/validator"
)

func TestDiff_OnlyChangedFields(t *testing.T) {
	base := Draft{Title: "A", Location: "X"}
	edited := Draft{Title: "B", Location: "X"}
	assert.Equal(t, domain.Changes{"title": "B"}, Diff(base, edited))
}

func TestDiff_DateComparedAsInstant(t *testing.T) {
	utc := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	base := Draft{Date: utc}
	edited := Draft{Date: utc.In(time.FixedZone("UTC+2", 2*60*60))}
	assert.Empty(t, Diff(base, edited))

	edited.Date = utc.Add(time.Hour)
	assert.Equal(t, domain.Changes{"date": utc.Add(time.Hour)}, Diff(base, edited))
}

func TestDiff_OnlyEditableFields(t *testing.T) {
	changes := Diff(Draft{}, validDraft())
	assert.Len(t, changes, len(domain.EditableFields))
	for field := range changes {
		assert.Contains(t, domain.EditableFields, field)
	}
	assert.NotContains(t, changes, "email")
	assert.NotContains(t, changes, "name")
	assert.NotContains(t, changes, "status")
}

func TestMutator_Create(t *testing.T) {
	e := newEnv(t, owner)
	m := NewMutator(e.deps)

	d := validDraft()
	d.Title = "  Lost wallet  "
	d.PostType = "lost"
	require.NoError(t, m.Create(context.Background(), d))

	page, err := e.client.ListPosts(context.Background(), domain.PageRequest{Page: 1, Limit: 6})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	got := page.Posts[0]
	assert.Equal(t, "Lost wallet", got.Title)
	assert.Equal(t, domain.PostTypeLost, got.PostType)
	assert.Equal(t, owner, got.Email)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.False(t, got.IsRecovered())
	assert.True(t, got.CreatedAt.Equal(testNow))
	assert.Equal(t, Notice{Level: LevelSuccess, Message: MsgCreated}, e.lastNotice(t))
}

func TestMutator_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Draft)
		want string
	}{
		{name: "title", edit: func(d *Draft) { d.Title = "" }, want: "Title is required"},
		{name: "description", edit: func(d *Draft) { d.Description = " " }, want: "Description is required"},
		{name: "location", edit: func(d *Draft) { d.Location = "" }, want: "Location is required"},
		{name: "category", edit: func(d *Draft) { d.Category = "furniture" }, want: "Category must be one of electronics, documents, pets, accessories, jewelry, wallets, keys, others"},
		{name: "thumbnail", edit: func(d *Draft) { d.Thumbnail = "" }, want: "Thumbnail is required"},
		{name: "thumbnail url", edit: func(d *Draft) { d.Thumbnail = "not a url" }, want: "Thumbnail must be a valid URL"},
		{name: "post type", edit: func(d *Draft) { d.PostType = "Stolen" }, want: "PostType must be Lost or Found"},
		{name: "future date", edit: func(d *Draft) { d.Date = testNow.AddDate(0, 0, 2) }, want: "Date cannot be in the future"},
		{name: "first error wins", edit: func(d *Draft) { d.Title, d.Location = "", "" }, want: "Title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, owner)
			m := NewMutator(e.deps)
			d := validDraft()
			tt.edit(&d)

			err := m.Create(context.Background(), d)
			var verr *validator.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.First())
			assert.Zero(t, e.srv.Requests("POST /posts"))
		})
	}
}

func TestMutator_CreateRequiresSession(t *testing.T) {
	e := newEnv(t, "")
	err := NewMutator(e.deps).Create(context.Background(), validDraft())
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	assert.Zero(t, e.srv.Requests("POST /posts"))
}

func seedOwned(e *env) domain.Listing {
	return e.srv.Seed(domain.Listing{
		ID:          "wallet",
		PostType:    domain.PostTypeLost,
		Thumbnail:   "https://img.example.com/wallet.png",
		Title:       "A",
		Description: "Brown wallet",
		Category:    domain.CategoryWallets,
		Location:    "X",
		Date:        testNow.AddDate(0, 0, -3),
		Name:        "Ana Lima",
		Email:       owner,
	})[0]
}

func TestEditSession_SubmitSendsDiff(t *testing.T) {
	e := newEnv(t, owner)
	seedOwned(e)
	s, err := NewMutator(e.deps).Edit(context.Background(), "wallet")
	require.NoError(t, err)

	s.SetTitle("B")
	assert.Equal(t, domain.Changes{"title": "B"}, s.Changes())
	require.NoError(t, s.Submit(context.Background()))

	stored, _ := e.srv.Post("wallet")
	assert.Equal(t, "B", stored.Title)
	assert.Equal(t, "X", stored.Location)
	assert.Equal(t, "B", s.Baseline().Title)
	assert.Empty(t, s.Changes())
	assert.Equal(t, Notice{Level: LevelSuccess, Message: MsgUpdated}, e.lastNotice(t))
}

func TestEditSession_NoChanges(t *testing.T) {
	e := newEnv(t, owner)
	seedOwned(e)
	s, err := NewMutator(e.deps).Edit(context.Background(), "wallet")
	require.NoError(t, err)

	s.SetTitle("A ")
	err = s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoChanges)
	assert.Equal(t, Notice{Level: LevelInfo, Message: MsgNoChanges}, e.lastNotice(t))
	assert.Zero(t, e.srv.Requests("PATCH /update-post/:id"))
}

func TestEditSession_StoredWhitespaceIsNotAChange(t *testing.T) {
	e := newEnv(t, owner)
	post := seedOwned(e)
	post.ID = "padded"
	post.Title = "  Brown wallet "
	post.Location = "Central station\t"
	e.srv.Seed(post)

	s, err := NewMutator(e.deps).Edit(context.Background(), "padded")
	require.NoError(t, err)
	assert.Empty(t, s.Changes())
	assert.Equal(t, "Brown wallet", s.Baseline().Title)

	err = s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoChanges)
	assert.Zero(t, e.srv.Requests("PATCH /update-post/:id"))

	s.SetTitle("Brown wallet")
	assert.Empty(t, s.Changes())
	s.SetLocation("Gym")
	assert.Equal(t, domain.Changes{"location": "Gym"}, s.Changes())
}

func TestEditSession_FailureRevertsBaseline(t *testing.T) {
	e := newEnv(t, owner)
	seedOwned(e)
	s, err := NewMutator(e.deps).Edit(context.Background(), "wallet")
	require.NoError(t, err)
	ctx := context.Background()

	s.SetLocation("Y")
	e.srv.FailNext("PATCH /update-post/:id", http.StatusInternalServerError, "database down")
	require.ErrorIs(t, s.Submit(ctx), domain.ErrUnavailable)

	assert.Equal(t, "X", s.Baseline().Location)
	assert.Equal(t, "Y", s.Form().Location)
	assert.Equal(t, domain.Changes{"location": "Y"}, s.Changes())
	assert.Equal(t, MsgUpdateFailed, e.lastNotice(t).Message)

	require.NoError(t, s.Submit(ctx))
	stored, _ := e.srv.Post("wallet")
	assert.Equal(t, "Y", stored.Location)
}

func TestEditSession_NonOwnerRejected(t *testing.T) {
	e := newEnv(t, stranger)
	seedOwned(e)
	s, err := NewMutator(e.deps).Edit(context.Background(), "wallet")
	require.NoError(t, err)

	s.SetTitle("Mine now")
	err = s.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "You can only update your own posts", e.lastNotice(t).Message)
	stored, _ := e.srv.Post("wallet")
	assert.Equal(t, "A", stored.Title)
}
