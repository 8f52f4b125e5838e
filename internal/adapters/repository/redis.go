package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/crease/internal/domain/model"
)

const backendRedis = "redis"

// RedisStore keeps snapshots as JSON strings in Redis. Match ids are also
// kept in a set so they can be listed without scanning the keyspace.
type RedisStore struct {
	client *redis.Client
	opts   options
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, opts ...Option) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newRedisStore(ctx, client, newOptions(opts))
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(ctx context.Context, client *redis.Client, opts ...Option) (*RedisStore, error) {
	return newRedisStore(ctx, client, newOptions(opts))
}

func newRedisStore(ctx context.Context, client *redis.Client, o options) (*RedisStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, o.dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, opts: o}, nil
}

func (s *RedisStore) matchKey(id string) string    { return s.opts.keyPrefix + ":match:" + id }
func (s *RedisStore) rosterKey(team string) string { return s.opts.keyPrefix + ":roster:" + team }
func (s *RedisStore) indexKey() string             { return s.opts.keyPrefix + ":matches" }

func (s *RedisStore) SaveMatch(ctx context.Context, m model.Match) (err error) {
	defer func(start time.Time) { observe(backendRedis, "save_match", start, err) }(time.Now())
	if m.ID == "" {
		return ErrInvalidID
	}
	b, err := encodeMatch(m)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.matchKey(m.ID), b, s.opts.matchTTL)
		p.SAdd(ctx, s.indexKey(), m.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

func (s *RedisStore) GetMatch(ctx context.Context, id string) (m model.Match, err error) {
	defer func(start time.Time) { observe(backendRedis, "get_match", start, err) }(time.Now())
	b, err := s.client.Get(ctx, s.matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Match{}, fmt.Errorf("get match %s: %w", id, err)
	}
	return decodeMatch(b)
}

func (s *RedisStore) DeleteMatch(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(backendRedis, "delete_match", start, err) }(time.Now())
	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.matchKey(id))
		p.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	return nil
}

func (s *RedisStore) ListMatches(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { observe(backendRedis, "list_matches", start, err) }(time.Now())
	ids, err = s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *RedisStore) SaveRoster(ctx context.Context, team string, players []model.Player) (err error) {
	defer func(start time.Time) { observe(backendRedis, "save_roster", start, err) }(time.Now())
	if team == "" {
		return ErrInvalidID
	}
	b, err := encodeRoster(players)
	if err != nil {
		return err
	}
	if err = s.client.Set(ctx, s.rosterKey(team), b, 0).Err(); err != nil {
		return fmt.Errorf("save roster %s: %w", team, err)
	}
	return nil
}

func (s *RedisStore) GetRoster(ctx context.Context, team string) (players []model.Player, err error) {
	defer func(start time.Time) { observe(backendRedis, "get_roster", start, err) }(time.Now())
	b, err := s.client.Get(ctx, s.rosterKey(team)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: roster %s", ErrNotFound, team)
	}
	if err != nil {
		return nil, fmt.Errorf("get roster %s: %w", team, err)
	}
	return decodeRoster(b)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
