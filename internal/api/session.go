package api

import (
	"context"
	"net/http"

	"github.com/whereisit-project/whereisit/internal/domain"
)

var _ domain.BackendSession = (*Client)(nil)

// Login opens the backend cookie session for email and starts a new
// credential epoch.
func (c *Client) Login(ctx context.Context, email string) error {
	err := c.do(ctx, call{
		op:      "Login",
		method:  http.MethodPost,
		path:    "/login",
		body:    map[string]string{"email": email},
		out:     &envelope{},
		session: true,
	})
	if err != nil {
		return err
	}
	c.advanceEpoch()
	return nil
}

// Logout closes the backend cookie session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		op:      "Logout",
		method:  http.MethodPost,
		path:    "/logout",
		body:    struct{}{},
		out:     &envelope{},
		session: true,
	})
}
