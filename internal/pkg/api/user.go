package api

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/user"
)

// LoginRequest is the wire shape of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        user.Response `json:"user"`
}

// Login authenticates and stores the issued token for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (user.User, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return user.User{}, err
	}
	c.SetToken(out.AccessToken)
	return out.User.ToUser(), nil
}

// Logout clears the stored token. The session mirror is the store's to
// reset; the client only drops its credentials.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", struct{}{}, nil)
	c.ClearToken()
	return err
}

// GetUser fetches a user record including leave balances and history.
func (c *Client) GetUser(ctx context.Context, id string) (user.User, error) {
	var out user.Response
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+id, nil, &out); err != nil {
		return user.User{}, err
	}
	return out.ToUser(), nil
}
