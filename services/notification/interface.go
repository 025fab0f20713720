package notification

import (
	"context"
	"fmt"

	"petties/database"
	"petties/utils"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
)

// NotificationService defines methods for sending FCM pushes. Delivery is
// fire-and-forget: callers log failures and move on.
type NotificationService interface {
	SendOwnerPush(ctx context.Context, ownerID, title, body string, data map[string]string) error
	SendClinicPush(ctx context.Context, clinicID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the FCM-backed implementation. Device tokens
// are registered by the auth service in the device_tokens collection.
type DefaultNotificationService struct{}

func NewDefaultNotificationService() *DefaultNotificationService {
	return &DefaultNotificationService{}
}

type deviceToken struct {
	Token string `bson:"token"`
}

func lookupToken(ctx context.Context, field, id string) (string, error) {
	var doc deviceToken
	err := database.Collection("device_tokens").FindOne(ctx, bson.M{field: id}).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("no device token for %s=%s: %w", field, id, err)
	}
	return doc.Token, nil
}

func send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

// SendOwnerPush looks up the pet owner's FCM token and sends a push.
func (s *DefaultNotificationService) SendOwnerPush(ctx context.Context, ownerID, title, body string, data map[string]string) error {
	token, err := lookupToken(ctx, "owner_id", ownerID)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	data["role"] = "owner"
	return send(ctx, token, title, body, data)
}

// SendClinicPush looks up the clinic's FCM token and sends a push.
func (s *DefaultNotificationService) SendClinicPush(ctx context.Context, clinicID, title, body string, data map[string]string) error {
	token, err := lookupToken(ctx, "clinic_id", clinicID)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	data["role"] = "clinic"
	return send(ctx, token, title, body, data)
}
