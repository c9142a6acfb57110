package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository is a small JSON cache used for balances, spot prices,
// transaction-history pages and wallet-verification nonces.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{
		client: client,
	}
}

// GetJSON reports found=false when the key is absent.
func (r *CacheRepository) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, json.Unmarshal([]byte(val), dest)
}

func (r *CacheRepository) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, b, ttl).Err()
}

func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return r.client.Del(ctx, keys...).Err()
}

// StoreChallenge keeps a wallet-verification nonce for one address.
func (r *CacheRepository) StoreChallenge(ctx context.Context, address, nonce string, ttl time.Duration) error {
	key := fmt.Sprintf("walletchallenge:%s", address)
	return r.client.Set(ctx, key, nonce, ttl).Err()
}

// ConsumeChallenge returns the nonce for an address and removes it so each
// challenge can be answered once.
func (r *CacheRepository) ConsumeChallenge(ctx context.Context, address string) (string, error) {
	key := fmt.Sprintf("walletchallenge:%s", address)

	nonce, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", errors.New("challenge not found or expired")
		}
		return "", fmt.Errorf("failed to consume challenge: %w", err)
	}

	return nonce, nil
}
