package user

import "context"

// Client defines what the account views need from the backend.
type Client interface {
	// GetUser fetches a user record including leave balances and history.
	GetUser(ctx context.Context, id string) (User, error)
}
