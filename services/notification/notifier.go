package notification

import (
	"context"

	"sportzone/models"

	"go.uber.org/zap"
)

// Notifier delivers a booking event to its audience. Implementations decide
// the channel (push, email, sms); the worker only dispatches.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, ev models.BookingEvent) error
}

// LogNotifier records events to the structured log. It is the default sink in
// environments without a push/email provider wired up.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyBookingEvent(ctx context.Context, ev models.BookingEvent) error {
	n.Logger.Info("booking event",
		zap.String("type", ev.Type),
		zap.String("bookingID", ev.BookingID),
		zap.String("userID", ev.UserID),
		zap.String("venueID", ev.VenueID),
		zap.String("date", ev.Date),
		zap.Int64("totalPrice", ev.TotalPrice),
		zap.Int64("refundAmount", ev.RefundAmount),
		zap.Int64("penaltyAmount", ev.PenaltyAmount),
		zap.String("reason", ev.Reason),
	)
	return nil
}
