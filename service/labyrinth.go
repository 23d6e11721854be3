package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxDimension = 256
	defaultSpeculative  = 1
	defaultListLimit    = 50
	cacheKeyFmt         = "%s:%s"
)

// LabyrinthOptions tunes a Labyrinths service. Zero values select defaults.
type LabyrinthOptions struct {
	MaxDimension int   // largest width or length accepted
	MaxAttempts  int   // retry ceiling per generator
	Speculative  int   // generators raced for unseeded requests
	ListLimit    int64 // records returned by ByOwner
}

// Labyrinths generates labyrinths on request and keeps them in a repository.
// Seeded requests are cached per owner, so a repeated request returns the
// stored record instead of generating again.
type Labyrinths struct {
	repo   i.LabyrinthRepo
	cache  i.LabyrinthCache
	logger i.Logger
	opts   *LabyrinthOptions
}

// NewLabyrinthService creates a Labyrinths service.
func NewLabyrinthService(repo i.LabyrinthRepo, cache i.LabyrinthCache, logger i.Logger, opts *LabyrinthOptions) (*Labyrinths, error) {
	if repo == nil || cache == nil || logger == nil {
		return nil, ErrNilDependency
	}

	if opts == nil {
		opts = &LabyrinthOptions{}
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = defaultMaxDimension
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = labyrinth.DefaultMaxAttempts
	}
	if opts.Speculative <= 0 {
		opts.Speculative = defaultSpeculative
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}

	return &Labyrinths{
		repo:   repo,
		cache:  cache,
		logger: logger,
		opts:   opts,
	}, nil
}

// Check validates req against the service limits.
func (s *Labyrinths) Check(req dmn.GenerationRequest) error {
	_, err := req.Config(s.opts.MaxDimension, s.opts.MaxAttempts)
	return err
}

// Generate returns a labyrinth for req owned by owner.
func (s *Labyrinths) Generate(ctx context.Context, owner uuid.UUID, req dmn.GenerationRequest) (*dmn.Labyrinth, error) {
	cfg, err := req.Config(s.opts.MaxDimension, s.opts.MaxAttempts)
	if err != nil {
		return nil, err
	}

	if req.Seed == nil {
		res, err := s.generateUnseeded(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s.store(ctx, owner, cfg, res, req.Anchors)
	}

	key := fmt.Sprintf(cacheKeyFmt, owner, dmn.Fingerprint(cfg))
	if l := s.cached(ctx, key); l != nil {
		return l, nil
	}

	unlock, err := s.cache.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", key, err)
	}
	defer unlock()

	// Another instance may have filled the key while we waited.
	if l := s.cached(ctx, key); l != nil {
		return l, nil
	}

	res, err := labyrinth.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	l, err := s.store(ctx, owner, cfg, res, req.Anchors)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLabyrinthID(ctx, key, l.ID); err != nil {
		s.logger.Warning(fmt.Sprintf("Caching labyrinth %s: %v", l.ID, err))
	}
	return l, nil
}

// ByID loads a stored labyrinth.
func (s *Labyrinths) ByID(ctx context.Context, id uuid.UUID) (*dmn.Labyrinth, error) {
	return s.repo.ByID(ctx, id)
}

// ByOwner lists the labyrinths generated for owner, newest first.
func (s *Labyrinths) ByOwner(ctx context.Context, owner uuid.UUID) ([]*dmn.Labyrinth, error) {
	return s.repo.ByOwner(ctx, owner, s.opts.ListLimit)
}

func (s *Labyrinths) cached(ctx context.Context, key string) *dmn.Labyrinth {
	id, ok, err := s.cache.LabyrinthID(ctx, key)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("Reading cache %s: %v", key, err))
		return nil
	}
	if !ok {
		return nil
	}

	l, err := s.repo.ByID(ctx, id)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("Cached labyrinth %s unavailable: %v", id, err))
		return nil
	}
	return l
}

func (s *Labyrinths) store(ctx context.Context, owner uuid.UUID, cfg labyrinth.Config, res *labyrinth.Result, anchors *labyrinth.Anchors) (*dmn.Labyrinth, error) {
	l := dmn.NewLabyrinth(uuid.New(), owner, cfg, res, anchors)
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Generated labyrinth %s: %dx%d after %d attempts", l.ID, l.Width, l.Length, l.Attempts))
	return l, nil
}

// generateUnseeded draws fresh seeds and races up to Speculative generators.
// The first accepted result wins and cancels the rest.
func (s *Labyrinths) generateUnseeded(ctx context.Context, cfg labyrinth.Config) (*labyrinth.Result, error) {
	if s.opts.Speculative == 1 {
		cfg.Seed = rand.Uint64()
		return labyrinth.Generate(ctx, cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *labyrinth.Result, s.opts.Speculative)
	g, gctx := errgroup.WithContext(ctx)
	for range s.opts.Speculative {
		c := cfg
		c.Seed = rand.Uint64()
		g.Go(func() error {
			res, err := labyrinth.Generate(gctx, c)
			if errors.Is(err, labyrinth.ErrGenerationExhausted) {
				return nil
			}
			if err != nil {
				return err
			}
			results <- res
			cancel()
			return nil
		})
	}
	err := g.Wait()

	select {
	case res := <-results:
		return res, nil
	default:
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %d generators", labyrinth.ErrGenerationExhausted, s.opts.Speculative)
}
