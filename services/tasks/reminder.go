package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"petties/config"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// ReminderPayload is the asynq payload for an appointment reminder push.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	OwnerID   string `json:"ownerId"`
	ClinicID  string `json:"clinicId"`
	Date      string `json:"date"`
	Start     int    `json:"start"`
}

// NewReminderTask builds a reminder task scheduled for fireAt.
func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues reminder tasks on the Redis-backed queue.
type Scheduler struct {
	client *asynq.Client
}

func NewScheduler() *Scheduler {
	return &Scheduler{client: asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})}
}

// ScheduleBookingReminder queues a reminder to fire at the given time.
func (s *Scheduler) ScheduleBookingReminder(payload ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
