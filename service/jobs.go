package service

import (
	"context"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPrefix   = "labyrinth"
	defaultBatch    = 4
	defaultInterval = 500 * time.Millisecond
	jobQueueKeyFmt  = "%s:queue:jobs"
)

// JobOptions tunes a Jobs service.
type JobOptions struct {
	Prefix   string
	Batch    int64         // jobs taken per poll
	Interval time.Duration // delay between polls
}

// Jobs queues generation requests and works them off in the background.
type Jobs struct {
	sortedQueue i.SortedQueue
	repo        i.JobRepo
	labyrinths  i.LabyrinthService
	logger      i.Logger
	opts        *JobOptions
}

// NewJobService creates a Jobs service. Missing options take defaults.
func NewJobService(sortedQueue i.SortedQueue, repo i.JobRepo, labyrinths i.LabyrinthService, logger i.Logger, opts *JobOptions) (*Jobs, error) {
	if sortedQueue == nil || repo == nil || labyrinths == nil || logger == nil {
		return nil, ErrNilDependency
	}

	if opts == nil {
		opts = &JobOptions{
			Prefix: defaultPrefix,
			Batch:  defaultBatch,
		}
	}

	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}

	if opts.Batch <= 0 {
		opts.Batch = defaultBatch
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}

	return &Jobs{
		sortedQueue: sortedQueue,
		repo:        repo,
		labyrinths:  labyrinths,
		logger:      logger,
		opts:        opts,
	}, nil
}

// Submit validates req, records a pending job and queues it.
func (j *Jobs) Submit(ctx context.Context, owner uuid.UUID, req dmn.GenerationRequest) (*dmn.Job, error) {
	if err := j.labyrinths.Check(req); err != nil {
		return nil, err
	}

	job := dmn.NewJob(owner, req)
	if err := j.repo.Save(ctx, job); err != nil {
		return nil, err
	}

	score := float64(job.CreatedAt.UnixNano())
	if err := j.sortedQueue.Enqueue(ctx, j.queueKey(), score, job.ID.String()); err != nil {
		j.logger.Error(fmt.Sprintf("Failed to enqueue job %s: %s", job.ID, err))
		// a pending job without a queue entry is never processed
		job.Fail(err)
		if saveErr := j.repo.Save(ctx, job); saveErr != nil {
			j.logger.Error(fmt.Sprintf("Saving job %s: %s", job.ID, saveErr))
		}
		return nil, err
	}

	j.logger.Info(fmt.Sprintf("Job queued: ID=%s Owner=%s", job.ID, owner))
	return job, nil
}

// Job returns the current state of a job.
func (j *Jobs) Job(ctx context.Context, id uuid.UUID) (*dmn.Job, error) {
	return j.repo.ByID(ctx, id)
}

// Pending returns the number of queued jobs.
func (j *Jobs) Pending(ctx context.Context) int64 {
	return j.sortedQueue.Count(ctx, j.queueKey())
}

// Run polls the queue until ctx is done.
func (j *Jobs) Run(ctx context.Context) {
	ticker := time.NewTicker(j.opts.Interval)
	defer ticker.Stop()

	j.logger.Info(fmt.Sprintf("Job worker started: batch=%d interval=%s", j.opts.Batch, j.opts.Interval))
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Job worker stopped")
			return
		case <-ticker.C:
			if _, err := j.ProcessBatch(ctx); err != nil {
				j.logger.Error(fmt.Sprintf("Processing jobs: %s", err))
			}
		}
	}
}

// ProcessBatch dequeues up to Batch jobs and generates them concurrently.
// It returns the number of jobs taken from the queue.
func (j *Jobs) ProcessBatch(ctx context.Context) (int, error) {
	rawIDs, err := j.sortedQueue.DequeTops(ctx, j.queueKey(), j.opts.Batch)
	if err != nil {
		return 0, err
	}

	var g errgroup.Group
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			j.logger.Warning(fmt.Sprintf("Non-UUID value in queue: %s", raw))
			continue
		}
		g.Go(func() error {
			j.process(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return len(rawIDs), nil
}

func (j *Jobs) process(ctx context.Context, id uuid.UUID) {
	job, err := j.repo.ByID(ctx, id)
	if err != nil {
		j.logger.Error(fmt.Sprintf("Loading job %s: %s", id, err))
		return
	}

	l, err := j.labyrinths.Generate(ctx, job.Owner, job.Request)
	if err != nil {
		j.logger.Warning(fmt.Sprintf("Job %s failed: %s", id, err))
		job.Fail(err)
	} else {
		job.Complete(l.ID)
	}

	if err := j.repo.Save(ctx, job); err != nil {
		j.logger.Error(fmt.Sprintf("Saving job %s: %s", id, err))
	}
}

func (j *Jobs) queueKey() string {
	return fmt.Sprintf(jobQueueKeyFmt, j.opts.Prefix)
}
