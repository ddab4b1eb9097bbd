package apiclient

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token and the user profile.
// The token is not persisted here; that is the session store's job.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	if err := c.check(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &resp); err != nil {
		return nil, err
	}
	if resp.User != nil {
		if err := c.check(resp.User); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Verify resolves the current bearer token into the user it belongs to.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, &resp); err != nil {
		return nil, err
	}
	if err := c.check(&resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
