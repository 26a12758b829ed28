package booking

import (
	"context"
	"errors"

	bookingRepo "sportzone/database/repository/booking"
	"sportzone/models"

	"go.uber.org/zap"
)

// CheckIn moves a confirmed booking to checked-in.
func (e *DefaultReservationEngine) CheckIn(ctx context.Context, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, bookingID,
		[]string{models.BookingStatusConfirmed}, models.BookingStatusCheckedIn)
}

// Complete moves a checked-in booking to completed and releases the owner's
// pending earnings for it. The guarded transition admits exactly one winner,
// so the release runs at most once per booking.
func (e *DefaultReservationEngine) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := e.transition(ctx, bookingID,
		[]string{models.BookingStatusCheckedIn}, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	if e.Wallets != nil && b.PaymentStatus == models.PaymentStatusPaid {
		venue, verr := e.Venues.GetByID(ctx, b.VenueID)
		if verr != nil || venue == nil {
			e.Logger.Error("could not resolve venue for earnings release",
				zap.String("bookingID", b.ID), zap.String("venueID", b.VenueID), zap.Error(verr))
			return b, nil
		}
		if werr := e.Wallets.ReleasePending(ctx, venue.OwnerID, b.BookingAmount); werr != nil {
			e.Logger.Error("failed to release owner earnings",
				zap.String("bookingID", b.ID), zap.String("ownerID", venue.OwnerID), zap.Error(werr))
		}
	}
	return b, nil
}

// Approve resolves a pending human review. If the booking is already paid the
// approval also confirms it; otherwise it stays Pending until payment arrives.
func (e *DefaultReservationEngine) Approve(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := e.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ApprovalStatus != models.ApprovalStatusPending {
		return nil, NewStateConflictError("booking %s is not awaiting approval", bookingID)
	}
	if err := e.Bookings.SetApproval(ctx, bookingID, models.ApprovalStatusApproved); err != nil {
		return nil, err
	}
	if booking.PaymentStatus == models.PaymentStatusPaid && booking.Status == models.BookingStatusPending {
		if err := e.Bookings.TransitionStatus(ctx, bookingID,
			[]string{models.BookingStatusPending}, models.BookingStatusConfirmed); err != nil && !errors.Is(err, bookingRepo.ErrNoTransition) {
			return nil, err
		}
	}
	return e.getBooking(ctx, bookingID)
}

// Reject resolves a pending review negatively; the cancellation flow then
// owns releasing the slot and any refund.
func (e *DefaultReservationEngine) Reject(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := e.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ApprovalStatus != models.ApprovalStatusPending {
		return nil, NewStateConflictError("booking %s is not awaiting approval", bookingID)
	}
	if err := e.Bookings.SetApproval(ctx, bookingID, models.ApprovalStatusRejected); err != nil {
		return nil, err
	}
	return e.getBooking(ctx, bookingID)
}

func (e *DefaultReservationEngine) transition(ctx context.Context, bookingID string, from []string, to string) (*models.Booking, error) {
	err := e.Bookings.TransitionStatus(ctx, bookingID, from, to)
	if errors.Is(err, bookingRepo.ErrNoTransition) {
		return nil, NewStateConflictError("booking %s cannot move to %s from its current status", bookingID, to)
	}
	if err != nil {
		return nil, err
	}
	return e.getBooking(ctx, bookingID)
}

func (e *DefaultReservationEngine) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}
	return booking, nil
}
