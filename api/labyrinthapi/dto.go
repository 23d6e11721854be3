// Package labyrinthapi provides the request and response shapes of the labyrinth routes.
package labyrinthapi

import (
	"time"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/google/uuid"
)

// GenerateRequest describes a labyrinth to generate. Omitted fields take defaults.
type GenerateRequest struct {
	Width        int                     `json:"width" binding:"omitempty,min=5"`
	Length       int                     `json:"length" binding:"omitempty,min=5"`
	Entrance     *labyrinth.CellPosition `json:"entrance"`
	MinOpenRatio float64                 `json:"min_open_ratio" binding:"omitempty,gt=0,lte=1"`
	MaxItems     *int                    `json:"max_items" binding:"omitempty,min=0"`
	Sampling     string                  `json:"sampling" binding:"omitempty,oneof=with_replacement without_replacement"`
	Backtrack    string                  `json:"backtrack" binding:"omitempty,oneof=lazy full"`
	Seed         *int64                  `json:"seed"`
	Anchors      *labyrinth.Anchors      `json:"anchors"`
}

func (r GenerateRequest) toDomain() dmn.GenerationRequest {
	return dmn.GenerationRequest{
		Width:        r.Width,
		Length:       r.Length,
		Entrance:     r.Entrance,
		MinOpenRatio: r.MinOpenRatio,
		MaxItems:     r.MaxItems,
		Sampling:     r.Sampling,
		Backtrack:    r.Backtrack,
		Seed:         r.Seed,
		Anchors:      r.Anchors,
	}
}

// LabyrinthResponse is the JSON form of a stored labyrinth.
type LabyrinthResponse struct {
	ID              string                   `json:"id"`
	Width           int                      `json:"width"`
	Length          int                      `json:"length"`
	Entrance        labyrinth.CellPosition   `json:"entrance"`
	Rows            []string                 `json:"rows"`
	Placements      []labyrinth.CellPosition `json:"placements"`
	WorldPlacements []labyrinth.Point        `json:"world_placements,omitempty"`
	MinOpenRatio    float64                  `json:"min_open_ratio"`
	FreeRatio       float64                  `json:"free_ratio"`
	Attempts        int                      `json:"attempts"`
	Seed            int64                    `json:"seed"`
	CreatedAt       time.Time                `json:"created_at"`
}

func newLabyrinthResponse(l *dmn.Labyrinth, grid *labyrinth.Grid) *LabyrinthResponse {
	resp := &LabyrinthResponse{
		ID:           l.ID.String(),
		Width:        l.Width,
		Length:       l.Length,
		Entrance:     l.Entrance,
		Rows:         l.Rows,
		Placements:   l.Placements,
		MinOpenRatio: l.MinOpenRatio,
		FreeRatio:    l.FreeRatio,
		Attempts:     l.Attempts,
		Seed:         l.Seed,
		CreatedAt:    l.CreatedAt,
	}
	if resp.Placements == nil {
		resp.Placements = []labyrinth.CellPosition{}
	}
	if l.Anchors != nil && grid != nil {
		resp.WorldPlacements = l.Anchors.WorldPositions(grid, l.Placements)
	}
	return resp
}

// LabyrinthSummary is one entry of a listing.
type LabyrinthSummary struct {
	ID        string    `json:"id"`
	Width     int       `json:"width"`
	Length    int       `json:"length"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// JobResponse reports the state of a generation job.
type JobResponse struct {
	ID          string        `json:"id"`
	Status      dmn.JobStatus `json:"status"`
	LabyrinthID string        `json:"labyrinth_id,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func newJobResponse(j *dmn.Job) *JobResponse {
	resp := &JobResponse{
		ID:        j.ID.String(),
		Status:    j.Status,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.LabyrinthID != uuid.Nil {
		resp.LabyrinthID = j.LabyrinthID.String()
	}
	return resp
}
