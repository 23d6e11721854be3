package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/google/uuid"
)

var (
	ErrDimensionTooLarge = errors.New("labyrinth dimension too large")
	ErrLabyrinthNotFound = errors.New("labyrinth not found")
	ErrJobNotFound       = errors.New("generation job not found")
)

// GenerationRequest is a client's description of a labyrinth to generate.
// Nil pointers select the defaults of labyrinth.DefaultConfig.
type GenerationRequest struct {
	Width        int                     `json:"width" bson:"width"`
	Length       int                     `json:"length" bson:"length"`
	Entrance     *labyrinth.CellPosition `json:"entrance,omitempty" bson:"entrance,omitempty"`
	MinOpenRatio float64                 `json:"min_open_ratio,omitempty" bson:"minOpenRatio,omitempty"`
	MaxItems     *int                    `json:"max_items,omitempty" bson:"maxItems,omitempty"`
	Sampling     string                  `json:"sampling,omitempty" bson:"sampling,omitempty"`
	Backtrack    string                  `json:"backtrack,omitempty" bson:"backtrack,omitempty"`
	Seed         *int64                  `json:"seed,omitempty" bson:"seed,omitempty"`
	Anchors      *labyrinth.Anchors      `json:"anchors,omitempty" bson:"anchors,omitempty"`
}

// Config converts r to a generator configuration. Dimensions above maxDimension
// are rejected; maxAttempts bounds the retry loop.
func (r GenerationRequest) Config(maxDimension, maxAttempts int) (labyrinth.Config, error) {
	cfg := labyrinth.DefaultConfig()
	if r.Width != 0 {
		cfg.Width = r.Width
	}
	if r.Length != 0 {
		cfg.Length = r.Length
	}
	if max(cfg.Width, cfg.Length) > maxDimension {
		return cfg, fmt.Errorf("%w: %dx%d exceeds %d", ErrDimensionTooLarge, cfg.Width, cfg.Length, maxDimension)
	}

	if r.Entrance != nil {
		cfg.Entrance = *r.Entrance
	}
	if r.MinOpenRatio != 0 {
		cfg.MinOpenRatio = r.MinOpenRatio
	}
	if r.MaxItems != nil {
		cfg.MaxItems = *r.MaxItems
	}
	if r.Seed != nil {
		cfg.Seed = uint64(*r.Seed)
	}
	cfg.MaxAttempts = maxAttempts

	mode, err := labyrinth.ParseSamplingMode(r.Sampling)
	if err != nil {
		return cfg, err
	}
	cfg.Sampling = mode

	backtrack, err := labyrinth.ParseBacktrackMode(r.Backtrack)
	if err != nil {
		return cfg, err
	}
	cfg.Backtrack = backtrack

	return cfg, cfg.Validate()
}

// Fingerprint identifies the labyrinth a seeded configuration produces.
func Fingerprint(cfg labyrinth.Config) string {
	return fmt.Sprintf("%dx%d:%d,%d:%g:%d:%s:%s:%d:%d",
		cfg.Width, cfg.Length, cfg.Entrance.X, cfg.Entrance.Z,
		cfg.MinOpenRatio, cfg.MaxItems, cfg.Sampling, cfg.Backtrack, cfg.MaxAttempts, cfg.Seed)
}

// Labyrinth is a stored, accepted labyrinth.
type Labyrinth struct {
	ID           uuid.UUID                `bson:"_id"`
	Owner        uuid.UUID                `bson:"owner"`
	Width        int                      `bson:"width"`
	Length       int                      `bson:"length"`
	Entrance     labyrinth.CellPosition   `bson:"entrance"`
	Rows         []string                 `bson:"rows"`
	Placements   []labyrinth.CellPosition `bson:"placements"`
	Anchors      *labyrinth.Anchors       `bson:"anchors,omitempty"`
	MinOpenRatio float64                  `bson:"minOpenRatio"`
	FreeRatio    float64                  `bson:"freeRatio"`
	Attempts     int                      `bson:"attempts"`
	Seed         int64                    `bson:"seed"` // bit pattern of the generator seed
	CreatedAt    time.Time                `bson:"createdAt"`
}

// NewLabyrinth records res, generated from cfg on behalf of owner.
func NewLabyrinth(id, owner uuid.UUID, cfg labyrinth.Config, res *labyrinth.Result, anchors *labyrinth.Anchors) *Labyrinth {
	return &Labyrinth{
		ID:           id,
		Owner:        owner,
		Width:        res.Grid.Width(),
		Length:       res.Grid.Length(),
		Entrance:     res.Grid.Entrance(),
		Rows:         res.Grid.Rows(),
		Placements:   res.Placements,
		Anchors:      anchors,
		MinOpenRatio: cfg.MinOpenRatio,
		FreeRatio:    labyrinth.Validator{MinOpenRatio: cfg.MinOpenRatio}.Ratio(res.Grid),
		Attempts:     res.Attempts,
		Seed:         int64(res.Seed),
		CreatedAt:    time.Now().UTC(),
	}
}

// Result rebuilds the generator result from the stored rows.
func (l *Labyrinth) Result() (*labyrinth.Result, error) {
	grid, err := labyrinth.ParseRows(l.Rows, l.Entrance)
	if err != nil {
		return nil, err
	}
	return &labyrinth.Result{
		Grid:       grid,
		Placements: l.Placements,
		Attempts:   l.Attempts,
		Seed:       uint64(l.Seed),
	}, nil
}

// JobStatus is the lifecycle state of a generation job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is an asynchronous generation request.
type Job struct {
	ID          uuid.UUID         `bson:"_id"`
	Owner       uuid.UUID         `bson:"owner"`
	Request     GenerationRequest `bson:"request"`
	Status      JobStatus         `bson:"status"`
	LabyrinthID uuid.UUID         `bson:"labyrinthId"` // set once done
	Error       string            `bson:"error,omitempty"`
	CreatedAt   time.Time         `bson:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
}

// NewJob returns a pending job for req.
func NewJob(owner uuid.UUID, req GenerationRequest) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		Owner:     owner,
		Request:   req,
		Status:    JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete marks the job done with the labyrinth it produced.
func (j *Job) Complete(labyrinthID uuid.UUID) {
	j.Status = JobDone
	j.LabyrinthID = labyrinthID
	j.Error = ""
	j.UpdatedAt = time.Now().UTC()
}

// Fail marks the job failed with err.
func (j *Job) Fail(err error) {
	j.Status = JobFailed
	j.Error = err.Error()
	j.UpdatedAt = time.Now().UTC()
}
