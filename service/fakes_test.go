package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*dmn.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*dmn.User{}}
}

func (r *memUserRepo) Save(_ context.Context, user *dmn.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Username == user.Username && id != user.ID {
			return dmn.ErrUsernameTaken
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, dmn.ErrUserNotFound
}

func (r *memUserRepo) ByUsername(_ context.Context, username string) (*dmn.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, dmn.ErrUserNotFound
}

type memLabyrinthRepo struct {
	mu    sync.Mutex
	saved map[uuid.UUID]*dmn.Labyrinth
	fail  error
}

func newMemLabyrinthRepo() *memLabyrinthRepo {
	return &memLabyrinthRepo{saved: map[uuid.UUID]*dmn.Labyrinth{}}
}

func (r *memLabyrinthRepo) Save(_ context.Context, l *dmn.Labyrinth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.saved[l.ID] = l
	return nil
}

func (r *memLabyrinthRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Labyrinth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.saved[id]; ok {
		return l, nil
	}
	return nil, dmn.ErrLabyrinthNotFound
}

func (r *memLabyrinthRepo) ByOwner(_ context.Context, owner uuid.UUID, limit int64) ([]*dmn.Labyrinth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dmn.Labyrinth
	for _, l := range r.saved {
		if l.Owner == owner {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *dmn.Labyrinth) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLabyrinthRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type memCache struct {
	mu      sync.Mutex
	ids     map[string]uuid.UUID
	locks   int
	readErr error
}

func newMemCache() *memCache {
	return &memCache{ids: map[string]uuid.UUID{}}
}

func (c *memCache) LabyrinthID(_ context.Context, key string) (uuid.UUID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return uuid.Nil, false, c.readErr
	}
	id, ok := c.ids[key]
	return id, ok, nil
}

func (c *memCache) SetLabyrinthID(_ context.Context, key string, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[key] = id
	return nil
}

func (c *memCache) Lock(context.Context, string) (func(), error) {
	c.mu.Lock()
	c.locks++
	c.mu.Unlock()
	return func() {}, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]dmn.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: map[uuid.UUID]dmn.Job{}}
}

func (r *memJobRepo) Save(_ context.Context, job *dmn.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *memJobRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, dmn.ErrJobNotFound
	}
	return &job, nil
}

type memQueue struct {
	mu         sync.Mutex
	members    map[string][]queued
	enqueueErr error
}

type queued struct {
	score  float64
	member string
}

func newMemQueue() *memQueue {
	return &memQueue{members: map[string][]queued{}}
}

func (q *memQueue) Enqueue(_ context.Context, key string, score float64, member string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.members[key] = append(q.members[key], queued{score: score, member: member})
	slices.SortStableFunc(q.members[key], func(a, b queued) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		}
		return 0
	})
	return nil
}

func (q *memQueue) DequeTops(_ context.Context, key string, amount int64) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.members[key]
	n := min(int(amount), len(items))
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.member)
	}
	q.members[key] = items[n:]
	return out, nil
}

func (q *memQueue) Count(_ context.Context, key string) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.members[key]))
}

type fakeTokenizer struct{}

func (fakeTokenizer) Generate(claims map[string]interface{}, exp time.Duration) (string, error) {
	return fmt.Sprintf("token:%v:%s", claims["username"], exp), nil
}

func (fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	return nil, errors.New("not supported")
}
