package i

import (
	"context"

	"github.com/google/uuid"
)

// LabyrinthCache maps request fingerprints to stored labyrinths.
type LabyrinthCache interface {
	// LabyrinthID reports the labyrinth cached under key, if any.
	LabyrinthID(ctx context.Context, key string) (uuid.UUID, bool, error)
	SetLabyrinthID(ctx context.Context, key string, id uuid.UUID) error

	// Lock serializes work on key across instances. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
}
