package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	historyTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client:     newClient(cfg),
		historyTTL: time.Duration(cfg.HistoryTTLSeconds) * time.Second,
	}
}

func newClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// GetReservations returns the cached history, or nil on a miss.
func (c *RedisCache) GetReservations(ctx context.Context) ([]domain.Reservation, error) {
	data, err := c.client.Get(ctx, reservationsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var reservations []domain.Reservation
	if err := json.Unmarshal(data, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *RedisCache) SetReservations(ctx context.Context, reservations []domain.Reservation) error {
	payload, err := json.Marshal(reservations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reservationsKey(), payload, c.historyTTL).Err()
}

func (c *RedisCache) InvalidateReservations(ctx context.Context) error {
	return c.client.Del(ctx, reservationsKey()).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func reservationsKey() string {
	return "cache:reservations"
}
