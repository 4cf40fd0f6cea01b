package refreshtokens

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refresh_token"

// redisRotateScript swaps the token only when the stored one still matches.
var redisRotateScript = redis.NewScript(`
local key = KEYS[1]
local current = ARGV[1]
local replacement = ARGV[2]
local expires_at = ARGV[3]
local ttl_ms = ARGV[4]

if redis.call("HGET", key, "token") ~= current then
  return 0
end

redis.call("HSET", key, "token", replacement, "expires_at", expires_at)
redis.call("PEXPIRE", key, ttl_ms)
return 1
`)

// RedisRepository keeps each account's token in the hash
// refresh_token:<accountID> (fields token, expires_at) with a TTL equal
// to the token validity.
type RedisRepository struct {
	client redis.UniversalClient
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) key(accountID string) string {
	return fmt.Sprintf("%s:%s", redisKeyPrefix, accountID)
}

func (r *RedisRepository) Save(ctx context.Context, accountID string, token string, validity time.Duration) error {
	key := r.key(accountID)
	expiresAt := time.Now().Add(validity)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "token", token, "expires_at", expiresAt.Unix())
		pipe.PExpire(ctx, key, validity)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, accountID string) (*models.RefreshToken, error) {
	values, err := r.client.HGetAll(ctx, r.key(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	token, ok := values["token"]
	if !ok {
		return nil, common.ErrNotFound
	}

	t := &models.RefreshToken{AccountID: accountID, Token: token}
	if raw, ok := values["expires_at"]; ok {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis error: bad expires_at: %w", err)
		}
		t.ExpiresAt = time.Unix(unix, 0)
	}

	return t, nil
}

func (r *RedisRepository) Rotate(ctx context.Context, accountID string, current string, next string, validity time.Duration) error {
	swapped, err := redisRotateScript.Run(
		ctx,
		r.client,
		[]string{r.key(accountID)},
		current,
		next,
		time.Now().Add(validity).Unix(),
		validity.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if swapped == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, accountID string) error {
	if err := r.client.Del(ctx, r.key(accountID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
