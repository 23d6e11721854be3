package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/google/uuid"
)

// LabyrinthEncoder converts generation results to a binary wire format.
type LabyrinthEncoder interface {
	MarshalLabyrinth(*labyrinth.Result) ([]byte, error)
	UnmarshalLabyrinth([]byte) (*labyrinth.Result, error)
}

// LabyrinthService generates and looks up labyrinths.
type LabyrinthService interface {
	// Check validates req without generating.
	Check(req dmn.GenerationRequest) error
	Generate(ctx context.Context, owner uuid.UUID, req dmn.GenerationRequest) (*dmn.Labyrinth, error)
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Labyrinth, error)
	ByOwner(ctx context.Context, owner uuid.UUID) ([]*dmn.Labyrinth, error)
}

// JobService accepts generation requests for background processing.
type JobService interface {
	Submit(ctx context.Context, owner uuid.UUID, req dmn.GenerationRequest) (*dmn.Job, error)
	Job(ctx context.Context, id uuid.UUID) (*dmn.Job, error)
}
