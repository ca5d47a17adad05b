package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evgall/ticketline/config"
	"github.com/evgall/ticketline/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds the serialized events listing. Availability snapshots
// live in the in-process status cache, not here.
type RedisCache struct {
	client    *redis.Client
	eventsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, eventsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		eventsTTL: eventsTTL,
	}
}

func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := c.client.Get(ctx, eventsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsKey(), payload, c.eventsTTL).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func eventsKey() string {
	return "cache:events"
}
