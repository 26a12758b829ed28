package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "sportzone/database/repository/booking"
	paymentRepo "sportzone/database/repository/payment"
	venueRepo "sportzone/database/repository/venue"
	walletRepo "sportzone/database/repository/wallet"
	"sportzone/models"
	"sportzone/services/booking"
	"sportzone/services/cancellation"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// dedupTTL bounds how long a processed gateway event is remembered. Gateways
// stop redelivering well inside this window.
const dedupTTL = 72 * time.Hour

// BookingCanceller releases a booking's slot and settles any refund. The
// cancellation service implements it.
type BookingCanceller interface {
	Cancel(ctx context.Context, bookingID string, actor cancellation.Actor, reason string) (*models.Booking, error)
}

// DedupStore is the slice of the Redis client used for one-shot fencing.
type DedupStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// EventHandler applies normalized gateway callbacks to payments and bookings.
// Delivery is at-least-once: every write here is convergent, and one-shot
// side effects (events out, notifications) are fenced through Redis.
type EventHandler struct {
	Payments     paymentRepo.PaymentRepository
	Bookings     bookingRepo.BookingRepository
	Venues       venueRepo.VenueRepository
	Wallets      walletRepo.WalletRepository
	Cancellation BookingCanceller
	Events       booking.EventPublisher
	Dedup        DedupStore
	Logger       *zap.Logger
}

// HandlePaymentSucceeded marks the payment and all its bookings paid. A
// booking still awaiting owner approval stays Pending; everything else
// confirms. Re-delivery of the same event converges on the same state and
// publishes the confirmation at most once.
func (h *EventHandler) HandlePaymentSucceeded(ctx context.Context, ev models.PaymentSucceededEvent) error {
	p, err := h.Payments.GetByID(ctx, ev.PaymentID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", ev.PaymentID, err)
	}
	if p == nil {
		return booking.NewNotFoundError("payment %s not found", ev.PaymentID)
	}

	if err := h.Payments.SetStatus(ctx, p.ID, models.PaymentSucceeded); err != nil {
		return fmt.Errorf("mark payment succeeded: %w", err)
	}

	bookings, err := h.Bookings.ListByPaymentID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("list bookings for payment %s: %w", p.ID, err)
	}
	for i := range bookings {
		b := &bookings[i]
		status := models.BookingStatusConfirmed
		if b.ApprovalStatus == models.ApprovalStatusPending {
			// Paid but still needs a human decision; approval confirms it.
			status = models.BookingStatusPending
		}
		if b.Status == models.BookingStatusCancelled {
			// Cancelled while the checkout was in flight. Keep the terminal
			// status, record the paid flag so the refund path sees the money.
			status = models.BookingStatusCancelled
		}
		firstPaid, err := h.Bookings.MarkPaid(ctx, b.ID, status)
		if err != nil {
			return fmt.Errorf("mark booking %s paid: %w", b.ID, err)
		}
		if firstPaid && status != models.BookingStatusCancelled {
			h.creditOwnerEarnings(ctx, b)
		}
		if status == models.BookingStatusConfirmed {
			h.publishOnce(ctx, "confirmed:"+p.ID+":"+b.ID, models.BookingEvent{
				Type:       models.EventBookingConfirmed,
				BookingID:  b.ID,
				UserID:     b.UserID,
				VenueID:    b.VenueID,
				Date:       b.Date,
				Start:      b.Start,
				End:        b.End,
				TotalPrice: b.TotalPrice,
				CreatedAt:  time.Now(),
			})
		}
	}
	return nil
}

// HandlePaymentFailed marks the payment failed and cancels its bookings so
// the held slots go back on the market. A payment that already succeeded is
// left alone: a late or duplicated failure callback must not unwind paid
// bookings. Errors from individual cancellations are logged, not propagated:
// the gateway will redeliver and the remaining bookings get another pass.
func (h *EventHandler) HandlePaymentFailed(ctx context.Context, ev models.PaymentFailedEvent) error {
	p, err := h.Payments.GetByID(ctx, ev.PaymentID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", ev.PaymentID, err)
	}
	if p == nil {
		return booking.NewNotFoundError("payment %s not found", ev.PaymentID)
	}
	if p.Status == models.PaymentSucceeded {
		h.Logger.Info("ignoring failure callback for settled payment",
			zap.String("paymentID", p.ID))
		return nil
	}

	err = h.Payments.TransitionStatus(ctx, p.ID,
		[]string{models.PaymentPending, models.PaymentFailed}, models.PaymentFailed)
	if errors.Is(err, paymentRepo.ErrNoTransition) {
		// The success callback won the race between our read and this write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}

	reason := ev.Reason
	if reason == "" {
		reason = "payment failed"
	}
	bookings, err := h.Bookings.ListByPaymentID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("list bookings for payment %s: %w", p.ID, err)
	}
	for i := range bookings {
		b := &bookings[i]
		if b.Status == models.BookingStatusCancelled || b.PaymentStatus == models.PaymentStatusPaid {
			continue
		}
		actor := cancellation.Actor{ID: b.UserID, Role: models.RoleCustomer}
		if _, err := h.Cancellation.Cancel(ctx, b.ID, actor, reason); err != nil {
			if booking.IsCode(err, booking.CodeStateConflict) {
				continue
			}
			h.Logger.Error("failed to release booking after payment failure",
				zap.String("bookingID", b.ID), zap.String("paymentID", p.ID), zap.Error(err))
		}
	}
	return nil
}

// creditOwnerEarnings moves the booking amount (net of the platform fee) into
// the venue owner's pending balance. It runs only on the write that first
// flipped the booking to paid, so duplicate callbacks cannot double-credit.
// Completion releases the pending amount; cancellation reverses it.
func (h *EventHandler) creditOwnerEarnings(ctx context.Context, b *models.Booking) {
	if h.Wallets == nil || h.Venues == nil {
		return
	}
	venue, err := h.Venues.GetByID(ctx, b.VenueID)
	if err != nil || venue == nil {
		h.Logger.Error("could not resolve venue for earnings credit",
			zap.String("bookingID", b.ID), zap.String("venueID", b.VenueID), zap.Error(err))
		return
	}
	if err := h.Wallets.CreditPending(ctx, venue.OwnerID, b.BookingAmount); err != nil {
		h.Logger.Error("failed to credit owner earnings",
			zap.String("bookingID", b.ID), zap.String("ownerID", venue.OwnerID), zap.Error(err))
	}
}

// publishOnce fences the event behind a Redis SETNX key so redeliveries of
// the gateway callback do not fan out duplicates. If Redis is down the event
// may duplicate; consumers tolerate that.
func (h *EventHandler) publishOnce(ctx context.Context, key string, ev models.BookingEvent) {
	if h.Events == nil {
		return
	}
	if h.Dedup != nil {
		ok, err := h.Dedup.SetNX(ctx, "payment_event:"+key, 1, dedupTTL).Result()
		if err != nil {
			h.Logger.Warn("event dedup check failed, publishing anyway",
				zap.String("key", key), zap.Error(err))
		} else if !ok {
			return
		}
	}
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Logger.Error("failed to publish booking event",
			zap.String("type", ev.Type), zap.String("bookingID", ev.BookingID), zap.Error(err))
	}
}
