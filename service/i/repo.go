package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, user *dmn.User) error

	// ByID retrieves a user by their unique ID.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.User, error)

	// ByUsername retrieves a user by their username.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByUsername(ctx context.Context, username string) (*dmn.User, error)
}

// LabyrinthRepo stores accepted labyrinths.
type LabyrinthRepo interface {
	Save(ctx context.Context, l *dmn.Labyrinth) error

	// ByID returns dmn.ErrLabyrinthNotFound when no record matches.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Labyrinth, error)

	// ByOwner lists the labyrinths of owner, newest first.
	ByOwner(ctx context.Context, owner uuid.UUID, limit int64) ([]*dmn.Labyrinth, error)
}

// JobRepo stores generation jobs.
type JobRepo interface {
	Save(ctx context.Context, job *dmn.Job) error

	// ByID returns dmn.ErrJobNotFound when no record matches.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Job, error)
}
