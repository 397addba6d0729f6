package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"grocerease/pkg/shopping"
)

const keyPrefix = "grocerease:session:"

// RedisRepository keeps a JSON copy of each session in Redis with an idle expiry.
type RedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository wires the client; ttl is refreshed on every save.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

// Key is the Redis key holding a session.
func Key(id string) string { return keyPrefix + id }

// Save serializes the session and resets its expiry.
func (r *RedisRepository) Save(ctx context.Context, session shopping.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, Key(session.ID), payload, r.ttl).Err()
}

// Load returns shopping.ErrSessionNotFound when the key is gone.
func (r *RedisRepository) Load(ctx context.Context, id string) (shopping.Session, error) {
	raw, err := r.rdb.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shopping.Session{}, shopping.ErrSessionNotFound
		}
		return shopping.Session{}, err
	}
	var session shopping.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return shopping.Session{}, err
	}
	return session, nil
}

// Delete removes the session key; deleting a missing key is not an error.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, Key(id)).Err()
}

// Connect dials Redis and checks the connection with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
