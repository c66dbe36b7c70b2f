package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/institute-service/internal/domain"
)

// Store keeps at most one live code per contact, each with its own expiry.
type Store interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	// ConsumeIfMatch deletes the entry only when it holds code, reporting whether it did.
	ConsumeIfMatch(ctx context.Context, key, code string) (bool, error)
}

// Key returns the cache key for a contact.
func Key(contact domain.Contact) string {
	return fmt.Sprintf("otp:%s:%s", contact.Type, contact.Value)
}

// consumeScript compares and deletes in a single round trip so two concurrent
// submissions of the same code cannot both succeed.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps codes in Redis with native key expiry.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis set otp: %w", err)
	}
	return nil
}

func (s *RedisStore) ConsumeIfMatch(ctx context.Context, key, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client, []string{key}, code).Int64()
	if err != nil {
		return false, fmt.Errorf("redis consume otp: %w", err)
	}
	return deleted == 1, nil
}
