package sos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"petties/models"
	"petties/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// historyTTL bounds how long a booking's event history is kept for replay.
const historyTTL = 24 * time.Hour

// EventBroadcaster delivers SOS status events to a booking's subscribers.
// Delivery is fire-and-forget and at-least-once; events carry a monotonic
// seq so subscribers can drop duplicates.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, ev models.SosEvent)
}

// RedisBroadcaster publishes events on a per-booking pub/sub channel and
// appends them to a replayable history list.
type RedisBroadcaster struct {
	Client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{Client: client}
}

func eventChannel(bookingID string) string {
	return "sos:events:" + bookingID
}

func historyKey(bookingID string) string {
	return "sos:history:" + bookingID
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, ev models.SosEvent) {
	logger := utils.GetLogger()
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to marshal SOS event", zap.Error(err))
		return
	}
	if err := b.Client.Publish(ctx, eventChannel(ev.BookingID), data).Err(); err != nil {
		logger.Warn("failed to publish SOS event",
			zap.String("bookingID", ev.BookingID), zap.Error(err))
	}
	pipe := b.Client.Pipeline()
	pipe.RPush(ctx, historyKey(ev.BookingID), data)
	pipe.Expire(ctx, historyKey(ev.BookingID), historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("failed to append SOS event history",
			zap.String("bookingID", ev.BookingID), zap.Error(err))
	}
}

// History returns the recorded events for a booking in emit order.
func (b *RedisBroadcaster) History(ctx context.Context, bookingID string) ([]models.SosEvent, error) {
	raw, err := b.Client.LRange(ctx, historyKey(bookingID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read SOS history for %s: %w", bookingID, err)
	}
	events := make([]models.SosEvent, 0, len(raw))
	for _, item := range raw {
		var ev models.SosEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
