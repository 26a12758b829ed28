package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"sportzone/config"
	"sportzone/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingEvent is the asynq task type for every booking lifecycle event.
const TypeBookingEvent = "booking:event"

// AsynqPublisher enqueues booking events onto the Redis-backed queue the
// notification worker consumes from.
type AsynqPublisher struct {
	client *asynq.Client
	logger *zap.Logger
}

// NewAsynqPublisher builds a publisher against the configured event queue DB.
func NewAsynqPublisher(logger *zap.Logger) *AsynqPublisher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQueueDB,
	})
	return &AsynqPublisher{client: client, logger: logger}
}

// Publish enqueues the event. Retries are asynq's job from here on.
func (p *AsynqPublisher) Publish(ctx context.Context, ev models.BookingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	task := asynq.NewTask(TypeBookingEvent, payload)
	info, err := p.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue booking event: %w", err)
	}
	p.logger.Debug("booking event enqueued",
		zap.String("type", ev.Type), zap.String("bookingID", ev.BookingID), zap.String("taskID", info.ID))
	return nil
}

// Close releases the underlying queue connection.
func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
