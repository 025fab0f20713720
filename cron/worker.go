package cron

import (
	"context"
	"encoding/json"
	"log"

	"petties/config"
	"petties/models"
	"petties/services/notification"
	"petties/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[ReminderWorker] worker stopped: %v", err)
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
		body := "Your appointment starts at " + models.MinutesToClock(payload.Start) + " on " + payload.Date
		if err := notifSvc.SendOwnerPush(ctx, payload.OwnerID, "Upcoming appointment", body,
			map[string]string{"bookingId": payload.BookingID}); err != nil {
			log.Printf("[ReminderWorker] failed to push reminder for booking %s: %v", payload.BookingID, err)
		}
		return nil
	}
}
