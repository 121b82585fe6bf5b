package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/whereisit-project/whereisit/internal/domain"
)

var _ domain.ListingAPI = (*Client)(nil)

func emailQuery(email string) url.Values {
	return url.Values{"email": []string{email}}
}

// ListPosts fetches one page of the public feed. A zero PageRequest asks
// the server for its default page.
func (c *Client) ListPosts(ctx context.Context, req domain.PageRequest) (*domain.PostPage, error) {
	q := url.Values{}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	var out domain.PostPage
	err := c.do(ctx, call{op: "ListPosts", method: http.MethodGet, path: "/posts", query: q, out: &out})
	if err != nil {
		return nil, err
	}
	if out.Posts == nil {
		out.Posts = []domain.Listing{}
	}
	return &out, nil
}

// GetPost fetches one listing.
func (c *Client) GetPost(ctx context.Context, id, email string) (*domain.Listing, error) {
	var out struct {
		Post *domain.Listing `json:"post"`
	}
	err := c.do(ctx, call{
		op:     "GetPost",
		method: http.MethodGet,
		path:   "/post/" + url.PathEscape(id),
		query:  emailQuery(email),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	if out.Post == nil {
		return nil, &Error{Op: "GetPost", StatusCode: http.StatusOK, Err: domain.ErrNotFound}
	}
	return out.Post, nil
}

// CreatePost submits a new listing.
func (c *Client) CreatePost(ctx context.Context, post domain.NewListing) error {
	return c.do(ctx, call{op: "CreatePost", method: http.MethodPost, path: "/posts", body: post, out: &envelope{}})
}

// UpdatePost sends only the changed fields.
func (c *Client) UpdatePost(ctx context.Context, id, email string, changes domain.Changes) error {
	return c.do(ctx, call{
		op:     "UpdatePost",
		method: http.MethodPatch,
		path:   "/update-post/" + url.PathEscape(id),
		query:  emailQuery(email),
		body:   changes,
		out:    &envelope{},
	})
}

// DeletePost removes a listing owned by email.
func (c *Client) DeletePost(ctx context.Context, id, email string) error {
	return c.do(ctx, call{
		op:     "DeletePost",
		method: http.MethodDelete,
		path:   "/posts/" + url.PathEscape(id),
		query:  emailQuery(email),
		out:    &envelope{},
	})
}

// MyPosts lists the listings reported by email.
func (c *Client) MyPosts(ctx context.Context, email string) ([]domain.Listing, error) {
	var out struct {
		Posts []domain.Listing `json:"posts"`
	}
	err := c.do(ctx, call{op: "MyPosts", method: http.MethodGet, path: "/my-posts", query: emailQuery(email), out: &out})
	if err != nil {
		return nil, err
	}
	if out.Posts == nil {
		out.Posts = []domain.Listing{}
	}
	return out.Posts, nil
}

// RecoveredItems lists the recovery records visible to email.
func (c *Client) RecoveredItems(ctx context.Context, email string) ([]domain.RecoveryRecord, error) {
	var out struct {
		Items []domain.RecoveryRecord `json:"items"`
	}
	err := c.do(ctx, call{op: "RecoveredItems", method: http.MethodGet, path: "/recovered-items", query: emailQuery(email), out: &out})
	if err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.RecoveryRecord{}
	}
	return out.Items, nil
}

// RecoverItem records a claim.
func (c *Client) RecoverItem(ctx context.Context, email string, record domain.RecoveryRecord) error {
	return c.do(ctx, call{
		op:     "RecoverItem",
		method: http.MethodPost,
		path:   "/recover-item",
		query:  emailQuery(email),
		body:   record,
		out:    &envelope{},
	})
}
