package booking

import (
	"context"
	"encoding/json"
	"time"

	"petties/models"
	"petties/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// bookingCacheTTL bounds staleness for bookings mutated outside this
// process (e.g. a direct DB fix-up).
const bookingCacheTTL = 10 * time.Minute

// BookingCache is a read-through cache for booking lookups. Writes must
// refresh the entry so reads after a status transition see the new state.
type BookingCache interface {
	Get(ctx context.Context, id string) (*models.Booking, bool)
	Set(ctx context.Context, b *models.Booking)
	Invalidate(ctx context.Context, id string)
}

// RedisBookingCache stores bookings as JSON blobs in the shared cache DB.
type RedisBookingCache struct {
	Client *redis.Client
}

func NewRedisBookingCache(client *redis.Client) *RedisBookingCache {
	return &RedisBookingCache{Client: client}
}

func bookingCacheKey(id string) string {
	return "booking:" + id
}

func (c *RedisBookingCache) Get(ctx context.Context, id string) (*models.Booking, bool) {
	data, err := c.Client.Get(ctx, bookingCacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var b models.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, false
	}
	return &b, true
}

func (c *RedisBookingCache) Set(ctx context.Context, b *models.Booking) {
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, bookingCacheKey(b.ID), data, bookingCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache booking",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func (c *RedisBookingCache) Invalidate(ctx context.Context, id string) {
	if err := c.Client.Del(ctx, bookingCacheKey(id)).Err(); err != nil {
		utils.GetLogger().Warn("failed to evict cached booking",
			zap.String("bookingID", id), zap.Error(err))
	}
}
