package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
)

// Authenticator registers users and signs them in.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (*dmn.User, string, error)
}
