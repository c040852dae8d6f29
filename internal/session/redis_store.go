package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// RedisStore keeps sessions in Redis and lets key expiry retire them.
type RedisStore struct {
	rdb      *redis.Client
	ttl      time.Duration
	now      clock
	newToken func() string
}

type redisSession struct {
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, now: utcNow, newToken: NewToken}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisStore) Create(ctx context.Context, userID uint) (domain.Session, error) {
	now := s.now()
	sess := domain.Session{
		Token:     s.newToken(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	data, err := json.Marshal(redisSession{UserID: sess.UserID, ExpiresAt: sess.ExpiresAt, CreatedAt: sess.CreatedAt})
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.Token), data, s.ttl).Err(); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (domain.Session, error) {
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var stored redisSession
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		return domain.Session{}, err
	}
	sess := domain.Session{
		Token:     token,
		UserID:    stored.UserID,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}
	if sess.Expired(s.now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
