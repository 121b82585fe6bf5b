package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
	"github.com/whereisit-project/whereisit/internal/output"
)

func TestRecent(t *testing.T) {
	env := newTestEnv(t)
	env.srv.SeedN(8, owner)

	res := env.run(t, "", "recent")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Item 1")
	assert.Contains(t, res.stdout, "Item 6")
	assert.NotContains(t, res.stdout, "Item 7")
	assert.Contains(t, res.stdout, "See also: whereisit browse")
}

func TestBrowse_Pagination(t *testing.T) {
	env := newTestEnv(t)
	env.srv.SeedN(20, owner)

	res := env.run(t, "", "browse", "--page", "2", "--limit", "6", "-o", "json")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)

	var page domain.PostPage
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Len(t, page.Posts, 6)
	assert.Equal(t, "post-07", page.Posts[0].ID)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 4, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasPrevPage)
	assert.Equal(t, 1, env.srv.Requests("GET /posts"))
}

func TestBrowse_Table(t *testing.T) {
	env := newTestEnv(t)
	env.srv.SeedN(20, owner)

	res := env.run(t, "", "browse", "--page", "4")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Showing 2 of 20 posts. Page 4 of 4")
}

func TestBrowse_Filter(t *testing.T) {
	env := newTestEnv(t)
	env.srv.SeedN(6, owner)

	res := env.run(t, "", "browse", "--type", "found", "-o", "json")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)

	var page domain.PostPage
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Len(t, page.Posts, 3)
	for _, p := range page.Posts {
		assert.Equal(t, domain.PostTypeFound, p.PostType)
	}
}

func TestBrowse_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.srv.FailNext("GET /posts", http.StatusInternalServerError, "boom")

	res := env.run(t, "", "browse")
	assert.Equal(t, output.ExitUnavailable, res.code)
	assert.Contains(t, res.stderr, "[ERROR] "+listing.MsgLoadPostsFailed)
	assert.NotContains(t, res.stderr, "[ERROR] Service unavailable")
	assert.Contains(t, res.stderr, "Suggestion:")
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", stranger))

	t.Run("requires sign-in", func(t *testing.T) {
		res := env.run(t, "", "show", "post-01")
		assert.Equal(t, output.ExitAuthRequired, res.code)
		assert.Contains(t, res.stderr, "Sign in required")
		assert.Zero(t, env.srv.Requests("GET /post/:id"))
	})

	t.Run("details", func(t *testing.T) {
		res := env.runAs(t, "show", "post-01")
		require.Equal(t, output.ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Brown wallet")
		assert.Contains(t, res.stdout, "Contact")
		assert.Contains(t, res.stdout, stranger)
		assert.Contains(t, res.stdout, "whereisit claim post-01")
	})

	t.Run("not found", func(t *testing.T) {
		res := env.runAs(t, "show", "missing")
		assert.Equal(t, output.ExitGeneral, res.code)
		assert.Contains(t, res.stderr, "Post not found")
	})

	t.Run("wrong password", func(t *testing.T) {
		res := env.run(t, "", "show", "post-01", "--email", owner, "--password", "nope")
		assert.Equal(t, output.ExitAuthRequired, res.code)
		assert.Contains(t, res.stderr, "Invalid email or password")
	})
}

func TestPostCreate(t *testing.T) {
	env := newTestEnv(t)

	res := env.runAs(t, "post", "create",
		"--type", "found",
		"--title", "Black phone",
		"--description", "Cracked screen",
		"--category", "Electronics",
		"--location", "Gym",
		"--thumbnail", "https://img.example.com/phone.png",
		"--date", "2024-06-14",
	)
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, listing.MsgCreated)

	res = env.runAs(t, "mine", "-o", "json")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	var posts []domain.Listing
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Black phone", posts[0].Title)
	assert.Equal(t, domain.PostTypeFound, posts[0].PostType)
	assert.Equal(t, domain.CategoryElectronics, posts[0].Category)
	assert.Equal(t, "Ana Lima", posts[0].Name)
	assert.False(t, posts[0].IsRecovered())
}

func TestPostCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing title", args: []string{"--description", "d", "--category", "keys", "--location", "Gym", "--thumbnail", "https://img.example.com/k.png"}},
		{name: "bad thumbnail", args: []string{"--title", "Keys", "--description", "d", "--category", "keys", "--location", "Gym", "--thumbnail", "not a url"}},
		{name: "future date", args: []string{"--title", "Keys", "--description", "d", "--category", "keys", "--location", "Gym", "--thumbnail", "https://img.example.com/k.png", "--date", "2999-01-01"}},
		{name: "bad date", args: []string{"--title", "Keys", "--date", "14/06/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.runAs(t, append([]string{"post", "create"}, tt.args...)...)
			assert.Equal(t, output.ExitValidation, res.code, res.stderr)
		})
	}
	assert.Zero(t, env.srv.Requests("POST /posts"))
}

func TestPostUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", owner))

	res := env.runAs(t, "post", "update", "post-01", "--location", "Lost property office")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, listing.MsgUpdated)

	post, ok := env.srv.Post("post-01")
	require.True(t, ok)
	assert.Equal(t, "Lost property office", post.Location)
	assert.Equal(t, "Brown wallet", post.Title)

	t.Run("no changes", func(t *testing.T) {
		before := env.srv.Requests("PATCH /update-post/:id")
		res := env.runAs(t, "post", "update", "post-01", "--location", "Lost property office")
		assert.Equal(t, output.ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, listing.MsgNoChanges)
		assert.Equal(t, before, env.srv.Requests("PATCH /update-post/:id"))
	})

	t.Run("not the owner", func(t *testing.T) {
		env.srv.Seed(openPost("post-02", stranger))
		res := env.runAs(t, "post", "update", "post-02", "--title", "Mine now")
		assert.Equal(t, output.ExitGeneral, res.code)
		assert.Contains(t, res.stderr, "You can only update your own posts")

		post, _ := env.srv.Post("post-02")
		assert.Equal(t, "Brown wallet", post.Title)
	})
}

func TestPostDelete(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", owner), openPost("post-02", stranger))

	t.Run("declined", func(t *testing.T) {
		res := env.run(t, "n\n", "post", "delete", "post-01", "--email", owner, "--password", secret)
		require.Equal(t, output.ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Cancelled")
		_, ok := env.srv.Post("post-01")
		assert.True(t, ok)
	})

	t.Run("confirmed", func(t *testing.T) {
		res := env.run(t, "y\n", "post", "delete", "post-01", "--email", owner, "--password", secret)
		require.Equal(t, output.ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, listing.MsgDeleted)
		_, ok := env.srv.Post("post-01")
		assert.False(t, ok)
	})

	t.Run("not the owner", func(t *testing.T) {
		res := env.runAs(t, "post", "delete", "post-02", "--yes")
		assert.Equal(t, output.ExitGeneral, res.code)
		assert.Contains(t, res.stderr, "You can only delete your own posts")
		_, ok := env.srv.Post("post-02")
		assert.True(t, ok)
	})
}

func TestClaim(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", stranger))

	res := env.runAs(t, "claim", "post-01", "--location", "Gym front desk", "--date", "2024-06-14")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, listing.MsgClaimed)

	recs := env.srv.Recovered()
	require.Len(t, recs, 1)
	assert.Equal(t, "post-01", recs[0].PostID)
	assert.Equal(t, "Gym front desk", recs[0].RecoveredLocation)
	assert.Equal(t, owner, recs[0].RecoveredBy.Email)
	assert.Equal(t, "Brown wallet", recs[0].OriginalPost.Title)

	t.Run("second claim", func(t *testing.T) {
		res := env.runAs(t, "claim", "post-01", "--location", "Elsewhere")
		assert.Equal(t, output.ExitGeneral, res.code)
		assert.Contains(t, res.stderr, "already been recovered")
		assert.Len(t, env.srv.Recovered(), 1)
	})

	t.Run("recovered list", func(t *testing.T) {
		res := env.runAs(t, "recovered", "--view", "table")
		require.Equal(t, output.ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Brown wallet")
		assert.Contains(t, res.stdout, "Gym front desk")
	})
}

func TestClaim_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", stranger))

	tests := []struct {
		name string
		args []string
	}{
		{name: "blank location", args: []string{"--location", "  "}},
		{name: "future date", args: []string{"--location", "Gym", "--date", "2999-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.runAs(t, append([]string{"claim", "post-01"}, tt.args...)...)
			assert.Equal(t, output.ExitValidation, res.code, res.stderr)
		})
	}
	assert.Zero(t, env.srv.Requests("POST /recover-item"))
}

func TestMine_SessionExpired(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Seed(openPost("post-01", owner))
	env.srv.FailNext("GET /my-posts", http.StatusUnauthorized, "unauthorized access")

	res := env.runAs(t, "mine")
	assert.Equal(t, output.ExitAuthRequired, res.code)
	assert.Contains(t, res.stderr, listing.MsgSessionGone)
	assert.Contains(t, res.stderr, "Suggestion:")
	assert.Equal(t, 1, env.srv.Logouts())
	assert.Zero(t, env.idp.ActiveSessions())
}
