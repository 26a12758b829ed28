package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "sportzone/database/repository/booking"
	ledgerRepo "sportzone/database/repository/ledger"
	venueRepo "sportzone/database/repository/venue"
	walletRepo "sportzone/database/repository/wallet"
	"sportzone/database"
	"sportzone/models"
	"sportzone/services/booking"

	"go.uber.org/zap"
)

// Actor identifies who is cancelling; the role drives which side of the
// policy table applies.
type Actor struct {
	ID   string
	Role string
}

// CancellationService computes refund quotes and executes cancellations. The
// wallet movement, booking state flip and ledger release commit in one
// transaction; the cancellation event goes out best-effort afterwards.
type CancellationService struct {
	Bookings bookingRepo.BookingRepository
	Ledger   ledgerRepo.LedgerRepository
	Venues   venueRepo.VenueRepository
	Wallets  walletRepo.WalletRepository
	Tx       database.TxRunner
	Policy   Policy
	Events   booking.EventPublisher
	Logger   *zap.Logger

	// Now is overridable so policy boundaries can be pinned in tests.
	Now func() time.Time
}

// Preview resolves the policy rule for the booking at the current instant and
// returns the quote without touching any record. It works for bookings the
// flow would reject, so a client can always show "what would happen".
func (s *CancellationService) Preview(ctx context.Context, bookingID, role string) (*Quote, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	rule, err := s.resolveRule(b)
	if err != nil {
		return nil, err
	}
	quote := QuoteFor(rule, b, role)
	return &quote, nil
}

// Cancel executes the cancellation. Checked-in and completed bookings are
// never cancellable regardless of policy. Refunds only move money when the
// booking was actually paid; an unpaid booking just releases its slot.
func (s *CancellationService) Cancel(ctx context.Context, bookingID string, actor Actor, reason string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.BookingStatusCheckedIn, models.BookingStatusCompleted:
		return nil, booking.NewStateConflictError("booking %s has already started and can no longer be cancelled", bookingID)
	case models.BookingStatusCancelled:
		return nil, booking.NewStateConflictError("booking %s is already cancelled", bookingID)
	}
	if !b.Cancellable() {
		return nil, booking.NewStateConflictError("booking %s cannot be cancelled from status %s", bookingID, b.Status)
	}

	venue, err := s.Venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return nil, fmt.Errorf("fetch venue: %w", err)
	}
	if venue == nil {
		return nil, booking.NewNotFoundError("venue %s not found", b.VenueID)
	}
	if err := authorize(actor, b, venue); err != nil {
		return nil, err
	}

	rule, err := s.resolveRule(b)
	if err != nil {
		return nil, err
	}
	quote := QuoteFor(rule, b, actor.Role)

	paid := b.PaymentStatus == models.PaymentStatusPaid
	refund := int64(0)
	if paid {
		refund = quote.RefundAmount
	}

	err = s.Tx.WithTransaction(ctx, func(tc context.Context) error {
		// The guarded cancel goes first: when a concurrent cancellation
		// already won, it returns ErrNoTransition and no money moves.
		if err := s.Bookings.MarkCancelled(tc, b.ID, reason, refund > 0); err != nil {
			return err
		}
		if refund > 0 {
			if err := s.Wallets.CreditRefundBalance(tc, b.UserID, refund); err != nil {
				return err
			}
		}
		if paid {
			// The owner's pending earnings for this booking are reversed in
			// full; the slot goes back on the market. Any venue-side penalty
			// comes out on top.
			if err := s.Wallets.DebitPending(tc, venue.OwnerID, b.BookingAmount+quote.PenaltyAmount); err != nil {
				return err
			}
		}
		return s.Ledger.RemoveWindow(tc, b.VenueID, b.CourtNumber, b.Date, b.ID)
	})
	if errors.Is(err, bookingRepo.ErrNoTransition) {
		return nil, booking.NewStateConflictError("booking %s was already cancelled or has moved on", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.publishCancelled(ctx, b, reason, refund, quote.PenaltyAmount)

	return s.getBooking(ctx, bookingID)
}

// authorize ties the actor to the booking: customers may only cancel their
// own bookings, venue-side roles only bookings at venues they own.
func authorize(actor Actor, b *models.Booking, venue *models.Venue) error {
	switch actor.Role {
	case models.RoleOwner, models.RoleProvider:
		if actor.ID != venue.OwnerID {
			return booking.NewForbiddenError("actor %s does not manage venue %s", actor.ID, venue.ID)
		}
	default:
		if actor.ID != b.UserID {
			return booking.NewForbiddenError("booking %s does not belong to this user", b.ID)
		}
	}
	return nil
}

func (s *CancellationService) resolveRule(b *models.Booking) (Rule, error) {
	start, err := b.StartTime()
	if err != nil {
		return Rule{}, booking.NewInternalError("booking %s carries an unparseable date", b.ID)
	}
	hours := start.Sub(s.now()).Hours()
	return s.policy().Resolve(hours), nil
}

func (s *CancellationService) publishCancelled(ctx context.Context, b *models.Booking, reason string, refund, penalty int64) {
	if s.Events == nil {
		return
	}
	ev := models.BookingEvent{
		Type:          models.EventBookingCancelled,
		BookingID:     b.ID,
		UserID:        b.UserID,
		VenueID:       b.VenueID,
		Date:          b.Date,
		Start:         b.Start,
		End:           b.End,
		TotalPrice:    b.TotalPrice,
		RefundAmount:  refund,
		PenaltyAmount: penalty,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Logger.Error("failed to publish cancellation event",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func (s *CancellationService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, booking.NewNotFoundError("booking %s not found", bookingID)
	}
	return b, nil
}

func (s *CancellationService) policy() Policy {
	if len(s.Policy) == 0 {
		return DefaultPolicy
	}
	return s.Policy
}

func (s *CancellationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
