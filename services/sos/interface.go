package sos

import (
	"context"
	"encoding/json"

	"petties/models"
	bookingSvc "petties/services/booking"

	"github.com/go-redis/redis/v8"
)

// SosService drives the emergency cascade-match flow.
type SosService interface {
	PlaceRequest(ctx context.Context, req models.SosRequest) (*models.Booking, error)
	Accept(ctx context.Context, bookingID string, reply models.SosClinicReply) error
	Decline(ctx context.Context, bookingID string, reply models.SosClinicReply) error
	Cancel(ctx context.Context, bookingID string) error
	Session(ctx context.Context, bookingID string) (*models.SosMatchSession, error)
}

// Session returns the cached cascade snapshot for a booking so a
// reconnecting owner app can resume progress.
func (c *Coordinator) Session(ctx context.Context, bookingID string) (*models.SosMatchSession, error) {
	if c.Sessions == nil {
		return nil, bookingSvc.NewNotFoundError("sos session", bookingID)
	}
	data, err := c.Sessions.Get(ctx, sessionKey(bookingID)).Bytes()
	if err == redis.Nil {
		return nil, bookingSvc.NewNotFoundError("sos session", bookingID)
	}
	if err != nil {
		return nil, err
	}
	var snapshot models.SosMatchSession
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
