package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
)

// RedisStore is an scs.CtxStore backed by go-redis. On top of the plain
// token -> data mapping it keeps a set of tokens per user so every session of
// a user can be removed at once.
type RedisStore struct {
	client   *redis.Client
	codec    scs.Codec
	lifetime time.Duration
}

// NewRedisStore builds a store. The codec must be the one used by the session
// manager; lifetime bounds how long a per-user index may outlive its sessions.
func NewRedisStore(client *redis.Client, codec scs.Codec, lifetime time.Duration) *RedisStore {
	return &RedisStore{client: client, codec: codec, lifetime: lifetime}
}

func sessionKey(token string) string { return sessionKeyPrefix + token }
func indexKey(uid string) string     { return userIndexPrefix + uid }

func (s *RedisStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find session: %w", err)
	}
	return b, true, nil
}

func (s *RedisStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.DeleteCtx(ctx, token)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(token), b, ttl)
	if uid := s.userID(b); uid != "" {
		pipe.SAdd(ctx, indexKey(uid), token)
		pipe.Expire(ctx, indexKey(uid), s.lifetime)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// DeleteCtx removes one session. Its entry in the user index is left to expire;
// a dangling token there points at nothing.
func (s *RedisStore) DeleteCtx(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions removes every session belonging to uid and returns how many
// live sessions were deleted.
func (s *RedisStore) DeleteUserSessions(ctx context.Context, uid string) (int64, error) {
	tokens, err := s.client.SMembers(ctx, indexKey(uid)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		keys = append(keys, sessionKey(t))
	}

	pipe := s.client.TxPipeline()
	var deleted *redis.IntCmd
	if len(keys) > 0 {
		deleted = pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey(uid))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	if deleted == nil {
		return 0, nil
	}
	return deleted.Val(), nil
}

func (s *RedisStore) userID(b []byte) string {
	_, values, err := s.codec.Decode(b)
	if err != nil {
		return ""
	}
	uid, _ := values[KeyUserID].(string)
	return uid
}

// scs.Store methods for callers without a context.

func (s *RedisStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *RedisStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *RedisStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}
