package cart

import (
	"context"
	"errors"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// RedisStore keeps carts as JSON values under cart:<id>, refreshing the TTL on
// every write.
type RedisStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, c *domain.Cart) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("redis", "SET", "key", Key(c.ID))
	return mapRedisError("create cart", s.rdb.Set(ctx, Key(c.ID), b, s.ttl).Err())
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	b, err := s.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, mapRedisError("get cart", err)
	}
	return decode(b)
}

// Update uses WATCH/MULTI so concurrent edits of one cart never overwrite
// each other; a conflicting write restarts the read-modify-write.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := Key(id)
	var updated *domain.Cart
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(id)
		}
		if err != nil {
			return err
		}
		c, err := decode(b)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		out, err := encode(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			updated = c
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logger.DebugContext(ctx, "Cart changed during update, retrying", "cart_id", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, mapRedisError("update cart", err)
		}
		return updated, nil
	}
	return nil, domain.NewError(domain.KindStorageUnavailable, "cart %s is being modified concurrently", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return mapRedisError("delete cart", s.rdb.Del(ctx, Key(id)).Err())
}

func mapRedisError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.KindStorageTimeout, op, err)
	}
	return domain.WrapError(domain.KindStorageUnavailable, op, err)
}
