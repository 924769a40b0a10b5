package ranking

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set holding best scores.
const DefaultRedisKey = "breadcrush:leaderboard"

// Redis keeps each player's best score in a sorted set.
type Redis struct {
	rdb redis.UniversalClient
	key string
}

// NewRedis wraps an existing client.
func NewRedis(rdb redis.UniversalClient, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{rdb: rdb, key: key}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string) (*Redis, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ranking: cannot reach redis at %s: %w", addr, err)
	}
	return NewRedis(rdb, ""), nil
}

// Submit implements Board. Lower scores never replace a better one.
func (r *Redis) Submit(ctx context.Context, res Result) error {
	err := r.rdb.ZAddGT(ctx, r.key, redis.Z{
		Score:  float64(res.Score),
		Member: res.Player,
	}).Err()
	if err != nil {
		return fmt.Errorf("ranking: cannot submit score: %w", err)
	}
	return nil
}

// Top implements Board.
func (r *Redis) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	zs, err := r.rdb.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("ranking: cannot read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		player, _ := z.Member.(string)
		entries = append(entries, Entry{
			Rank:   i + 1,
			Player: player,
			Score:  int(z.Score),
		})
	}
	return entries, nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
