package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/depositd/internal/application/deposit/dto"
	"github.com/ledgerline/depositd/internal/application/deposit/listcache"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

const (
	depositListKeyPrefix    = "deposit:list:user:"
	depositListGenKeyPrefix = "deposit:list:gen:"
	baseDepositListTTL      = 5 * time.Minute
	depositListTTLJitter    = time.Minute // TTL range: 5-6 min (anti-stampede)
	// outlives any list entry written under an older generation
	depositListGenTTL = 24 * time.Hour
)

var errStaleGeneration = errors.New("deposit list generation moved")

// RedisDepositListCache keeps one hash per user; each field holds the JSON
// list for one status filter. A per-user counter key is bumped on every
// Invalidate and watched by Set.
type RedisDepositListCache struct {
	client *redis.Client
	logger logger.Interface
}

var _ listcache.Cache = (*RedisDepositListCache)(nil)

func NewRedisDepositListCache(client *redis.Client, logger logger.Interface) *RedisDepositListCache {
	return &RedisDepositListCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisDepositListCache) key(userID uint) string {
	return fmt.Sprintf("%s%d", depositListKeyPrefix, userID)
}

func (c *RedisDepositListCache) genKey(userID uint) string {
	return fmt.Sprintf("%s%d", depositListGenKeyPrefix, userID)
}

func generationOf(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisDepositListCache) Generation(ctx context.Context, userID uint) (int64, error) {
	gen, err := generationOf(c.client.Get(ctx, c.genKey(userID)))
	if err != nil {
		return 0, fmt.Errorf("failed to read deposit list generation: %w", err)
	}
	return gen, nil
}

func (c *RedisDepositListCache) Get(ctx context.Context, userID uint, status string) ([]*dto.DepositDTO, bool, error) {
	raw, err := c.client.HGet(ctx, c.key(userID), status).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get deposit list from cache: %w", err)
	}

	var items []*dto.DepositDTO
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached deposit list: %w", err)
	}
	return items, true, nil
}

func (c *RedisDepositListCache) Set(ctx context.Context, userID uint, status string, gen int64, items []*dto.DepositDTO) error {
	if items == nil {
		items = []*dto.DepositDTO{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode deposit list: %w", err)
	}

	key, genKey := c.key(userID), c.genKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generationOf(tx.Get(ctx, genKey))
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, status, payload)
			pipe.Expire(ctx, key, depositListTTLWithJitter())
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		c.logger.Debugw("deposit list invalidated during read, not cached", "user_id", userID, "status", status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set deposit list in cache: %w", err)
	}

	c.logger.Debugw("deposit list cached", "user_id", userID, "status", status, "count", len(items))
	return nil
}

func (c *RedisDepositListCache) Invalidate(ctx context.Context, userID uint) error {
	genKey := c.genKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, depositListGenTTL)
		pipe.Del(ctx, c.key(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate deposit list cache: %w", err)
	}

	c.logger.Debugw("deposit list cache invalidated", "user_id", userID)
	return nil
}

func depositListTTLWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(depositListTTLJitter)))
	return baseDepositListTTL + jitter
}

// NoopDepositListCache never hits. Used when redis is disabled.
type NoopDepositListCache struct{}

var _ listcache.Cache = NoopDepositListCache{}

func (NoopDepositListCache) Get(context.Context, uint, string) ([]*dto.DepositDTO, bool, error) {
	return nil, false, nil
}

func (NoopDepositListCache) Generation(context.Context, uint) (int64, error) { return 0, nil }

func (NoopDepositListCache) Set(context.Context, uint, string, int64, []*dto.DepositDTO) error {
	return nil
}

func (NoopDepositListCache) Invalidate(context.Context, uint) error { return nil }
