package labyrinth

import (
	"context"
	"fmt"
	"math/rand/v2"
)

const (
	DefaultWidth       = 18
	DefaultLength      = 28
	DefaultMaxItems    = 3
	DefaultMaxAttempts = 100

	// pcgStream decorrelates the second PCG word from the seed.
	pcgStream = 0x9e3779b97f4a7c15
)

// DefaultEntrance is the entrance used by DefaultConfig.
var DefaultEntrance = CellPosition{X: 9, Z: 2}

// Config describes one labyrinth generation.
type Config struct {
	Width        int           // largest X index, at least 5
	Length       int           // largest Z index, at least 5
	Entrance     CellPosition  // carving root, forced open
	MinOpenRatio float64       // zero means DefaultMinOpenRatio
	MaxItems     int           // upper bound on placements, zero disables placement
	MaxAttempts  int           // zero means DefaultMaxAttempts
	Sampling     SamplingMode  // how placements are drawn
	Backtrack    BacktrackMode // what the walker revisits after a dead end
	Seed         uint64        // seeds every random choice
}

// DefaultConfig returns the configuration of the reference labyrinth.
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Length:       DefaultLength,
		Entrance:     DefaultEntrance,
		MinOpenRatio: DefaultMinOpenRatio,
		MaxItems:     DefaultMaxItems,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// withDefaults fills zero-valued tunables.
func (c Config) withDefaults() Config {
	if c.MinOpenRatio == 0 {
		c.MinOpenRatio = DefaultMinOpenRatio
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Validate reports ErrInvalidConfiguration for configurations no attempt could satisfy structurally.
func (c Config) Validate() error {
	c = c.withDefaults()

	if err := checkDimensions(c.Width, c.Length); err != nil {
		return err
	}
	if c.Entrance.X < 0 || c.Entrance.X > c.Width || c.Entrance.Z < 0 || c.Entrance.Z > c.Length {
		return fmt.Errorf("%w: entrance %s outside %dx%d grid", ErrInvalidConfiguration, c.Entrance, c.Width, c.Length)
	}
	if !c.entranceReachable() {
		return fmt.Errorf("%w: entrance %s has no interior cell two steps away", ErrInvalidConfiguration, c.Entrance)
	}
	if !(c.MinOpenRatio >= 0 && c.MinOpenRatio <= 1) {
		return fmt.Errorf("%w: min open ratio %v outside (0,1]", ErrInvalidConfiguration, c.MinOpenRatio)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: max items %d is negative", ErrInvalidConfiguration, c.MaxItems)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts %d is negative", ErrInvalidConfiguration, c.MaxAttempts)
	}
	if c.Sampling != WithoutReplacement && c.Sampling != WithReplacement {
		return fmt.Errorf("%w: unknown sampling mode %d", ErrInvalidConfiguration, c.Sampling)
	}
	if c.Backtrack != LazyBacktrack && c.Backtrack != FullBacktrack {
		return fmt.Errorf("%w: unknown backtrack mode %d", ErrInvalidConfiguration, c.Backtrack)
	}
	return nil
}

func (c Config) entranceReachable() bool {
	for _, d := range directions {
		to := c.Entrance.add(d)
		if to.X > 0 && to.X < c.Width && to.Z > 0 && to.Z < c.Length {
			return true
		}
	}
	return false
}

// Result is an accepted labyrinth.
type Result struct {
	Grid       *Grid          // validated grid, not modified after acceptance
	Placements []CellPosition // sampled secondary item positions
	Attempts   int            // attempts used, the accepted one included
	Seed       uint64         // seed that reproduces this result
}

// AttemptHook observes each finished attempt.
type AttemptHook func(attempt int, ratio float64, accepted bool)

// Option configures a Generator.
type Option func(*Generator)

// WithAttemptHook registers a hook called after every attempt.
func WithAttemptHook(h AttemptHook) Option {
	return func(g *Generator) {
		g.onAttempt = h
	}
}

// Generator runs the bounded retry loop. A Generator owns its random source and
// is not safe for concurrent use.
type Generator struct {
	cfg       Config
	rng       *rand.Rand
	validator Validator
	onAttempt AttemptHook
}

// New validates cfg and returns a Generator seeded with cfg.Seed.
func New(cfg Config, options ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	g := &Generator{
		cfg:       cfg,
		rng:       NewRand(cfg.Seed),
		validator: Validator{MinOpenRatio: cfg.MinOpenRatio},
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// NewRand returns the deterministic source used for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Generate builds fresh grids until one is accepted or MaxAttempts is reached.
// ctx is checked between attempts.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		grid, err := NewGrid(g.cfg.Width, g.cfg.Length, g.cfg.Entrance)
		if err != nil {
			return nil, err
		}
		newWalker(grid, g.rng, g.cfg.Backtrack).run()

		accepted := g.validator.Accept(grid)
		if g.onAttempt != nil {
			g.onAttempt(attempt, g.validator.Ratio(grid), accepted)
		}
		if !accepted {
			continue
		}

		return &Result{
			Grid:       grid,
			Placements: SamplePlacements(grid, g.cfg.MaxItems, g.cfg.Sampling, g.rng),
			Attempts:   attempt,
			Seed:       g.cfg.Seed,
		}, nil
	}

	return nil, fmt.Errorf("%w: no grid reached ratio %v in %d attempts", ErrGenerationExhausted, g.cfg.MinOpenRatio, g.cfg.MaxAttempts)
}

// Generate is a shorthand for New followed by Generate.
func Generate(ctx context.Context, cfg Config, options ...Option) (*Result, error) {
	g, err := New(cfg, options...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx)
}
