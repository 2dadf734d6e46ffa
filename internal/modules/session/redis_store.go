// README: Redis-backed session store; JSON documents with TTL plus a last-access index.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session under <prefix>:session:<id> with a TTL equal
// to the idle timeout, and indexes ids by last access in <prefix>:sessions so
// the sweep and stats do not need to SCAN.
type RedisStore struct {
	rdb    redis.UniversalClient
	opts   Options
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, prefix string, opts Options) *RedisStore {
	if prefix == "" {
		prefix = "trailmate"
	}
	return &RedisStore{rdb: rdb, opts: opts.withDefaults(), prefix: prefix}
}

func (r *RedisStore) sessionKey(id string) string { return r.prefix + ":session:" + id }
func (r *RedisStore) indexKey() string            { return r.prefix + ":sessions" }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if r.opts.expired(&s, r.opts.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	stored := s.Clone()
	stored.Trim(r.opts.MaxTurns, r.opts.MaxPlans)

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(s.ID), raw, r.opts.IdleTimeout)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(stored.LastAccess.UnixMilli()),
			Member: s.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// sweepScript selects and removes idle ids in one server-side step, so a Set
// that refreshes a session can never land between the read and the delete.
// KEYS[1] is the index, ARGV[1] the exclusive cutoff, ARGV[2] the session key prefix.
var sweepScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
for _, id in ipairs(ids) do
  redis.call('DEL', ARGV[2] .. id)
  redis.call('ZREM', KEYS[1], id)
end
return #ids
`)

func (r *RedisStore) SweepExpired(ctx context.Context) (int, error) {
	cutoff := r.opts.Now().Add(-r.opts.IdleTimeout).UnixMilli()
	n, err := sweepScript.Run(ctx, r.rdb,
		[]string{r.indexKey()},
		strconv.FormatInt(cutoff, 10), r.sessionKey(""),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}

func (r *RedisStore) Stats(ctx context.Context) (Stats, error) {
	cutoff := r.opts.Now().Add(-r.opts.IdleTimeout).UnixMilli()
	n, err := r.rdb.ZCount(ctx, r.indexKey(), strconv.FormatInt(cutoff, 10), "+inf").Result()
	if err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}
	return Stats{ActiveSessions: int(n), IdleTimeout: r.opts.IdleTimeout}, nil
}
