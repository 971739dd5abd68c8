package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"schoolgate/internal/institution/models"
	id "schoolgate/pkg/domain"
)

// inner is the subset of store behavior the cache decorates.
type inner interface {
	Create(ctx context.Context, institution *models.Institution) error
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error)
}

// RedisCache is a read-through cache in front of an institution store.
// Presence verification resolves the institution anchor on every call, so
// the lookup is worth caching; writes invalidate the key. Cache failures
// degrade to the inner store rather than failing the request.
type RedisCache struct {
	inner  inner
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(innerStore inner, client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{inner: innerStore, client: client, ttl: ttl}
}

func cacheKey(institutionID id.InstitutionID) string {
	return "institution:" + institutionID.String()
}

func (c *RedisCache) Create(ctx context.Context, institution *models.Institution) error {
	if err := c.inner.Create(ctx, institution); err != nil {
		return err
	}
	c.client.Del(ctx, cacheKey(institution.ID))
	return nil
}

func (c *RedisCache) FindByID(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error) {
	key := cacheKey(institutionID)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var institution models.Institution
		if unmarshalErr := json.Unmarshal(cached, &institution); unmarshalErr == nil {
			return &institution, nil
		}
		// Corrupt entry: drop it and fall through to the inner store.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis unavailable; serve from the inner store.
		return c.inner.FindByID(ctx, institutionID)
	}

	institution, err := c.inner.FindByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(institution); marshalErr == nil {
		c.client.Set(ctx, key, payload, c.ttl)
	}
	return institution, nil
}
