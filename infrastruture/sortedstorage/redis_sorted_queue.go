package sortedstorage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisSortedQueue manages a sorted queue in Redis. Queue keys never expire:
// every member stays until it is dequeued.
type RedisSortedQueue struct {
	client *redis.Client
}

// NewRedisSortedQueue initializes a RedisSortedQueue with the provided Redis client.
func NewRedisSortedQueue(client *redis.Client) *RedisSortedQueue {
	return &RedisSortedQueue{client: client}
}

// Enqueue adds a member to the sorted queue with a given score.
func (rsq *RedisSortedQueue) Enqueue(ctx context.Context, queueKey string, score float64, member string) error {
	return rsq.client.ZAdd(ctx, queueKey, redis.Z{Score: score, Member: member}).Err()
}

// DequeTops removes and retrieves up to `amount` members with the lowest scores.
// ZPOPMIN is atomic, so concurrent callers never receive the same member.
func (rsq *RedisSortedQueue) DequeTops(ctx context.Context, queueKey string, amount int64) ([]string, error) {
	popped, err := rsq.client.ZPopMin(ctx, queueKey, amount).Result()
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(popped))
	for _, z := range popped {
		if m, ok := z.Member.(string); ok {
			members = append(members, m)
		}
	}
	return members, nil
}

// Count returns the number of members in the sorted queue.
func (rsq *RedisSortedQueue) Count(ctx context.Context, queueKey string) int64 {
	return rsq.client.ZCard(ctx, queueKey).Val()
}
