package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "sportzone/database/repository/ledger"
	"sportzone/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CreateBooking reserves a single window. The ledger mutation, conflict
// re-check and the booking/payment inserts run as one transaction; a lost
// optimistic race retries the whole sequence from a fresh read, bounded by
// RetryLimit, and never silently double-books.
func (e *DefaultReservationEngine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	venue, day, window, err := e.validateRequest(ctx, req.VenueID, req.CourtNumber, req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	amount, err := QuoteWindow(venue, day, window)
	if err != nil {
		return nil, err
	}
	fee := PlatformFee(amount, e.FeeRate)

	owner, err := e.resolveOwner(ctx, req.UserID, req.Guest)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	var payment *models.Payment
	for attempt := 0; attempt < e.retryLimit(); attempt++ {
		booking, payment, err = e.reserveOnce(ctx, venue, owner, req, window, amount, fee)
		if errors.Is(err, ledgerRepo.ErrVersionMismatch) {
			e.Logger.Warn("lost reservation race, retrying",
				zap.String("venueID", venue.ID), zap.String("date", req.Date), zap.Int("attempt", attempt+1))
			continue
		}
		break
	}
	if errors.Is(err, ledgerRepo.ErrVersionMismatch) {
		return nil, NewConflictError("slot no longer available, please refresh")
	}
	if err != nil {
		return nil, err
	}

	result := &BookingResult{Booking: booking}
	result.CheckoutURL = e.startCheckout(ctx, payment)

	e.publish(ctx, models.BookingEvent{
		Type:       models.EventBookingCreated,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		VenueID:    booking.VenueID,
		Date:       booking.Date,
		Start:      booking.Start,
		End:        booking.End,
		TotalPrice: booking.TotalPrice,
		CreatedAt:  time.Now(),
	})
	return result, nil
}

// reserveOnce runs one full attempt of the optimistic protocol inside a
// transaction: upsert-with-version-bump, holiday check, conflict re-check
// against the just-read windows, version-fenced append, then the booking and
// payment inserts. Any error aborts the whole transaction.
func (e *DefaultReservationEngine) reserveOnce(
	ctx context.Context,
	venue *models.Venue,
	owner *models.User,
	req CreateBookingRequest,
	window models.TimeWindow,
	amount, fee int64,
) (*models.Booking, *models.Payment, error) {
	var booking models.Booking
	var payment models.Payment

	err := e.Tx.WithTransaction(ctx, func(tc context.Context) error {
		entry, err := e.Ledger.UpsertAndBump(tc, venue.ID, req.CourtNumber, req.Date)
		if err != nil {
			return fmt.Errorf("ledger upsert: %w", err)
		}
		if entry.IsHoliday {
			return NewHolidayError(entry.HolidayReason)
		}
		// Re-check against the windows read in this transaction, never an
		// earlier snapshot: this closes the race where two requests both saw
		// "free" before either committed.
		if HasConflict(window, entry.BookedSlots) {
			return NewConflictError("slot no longer available, please refresh")
		}

		if err := e.ensureOwner(tc, owner); err != nil {
			return err
		}

		now := time.Now()
		booking = models.Booking{
			ID:             uuid.New().String(),
			UserID:         owner.ID,
			VenueID:        venue.ID,
			CourtNumber:    req.CourtNumber,
			Date:           req.Date,
			Start:          window.Start,
			End:            window.End,
			Status:         initialStatus(req.PaymentMethod, req.Note, venue),
			PaymentStatus:  models.PaymentStatusUnpaid,
			ApprovalStatus: initialApproval(req.Note, venue),
			Note:           req.Note,
			BookingAmount:  amount,
			PlatformFee:    fee,
			TotalPrice:     amount + fee,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		payment = models.Payment{
			ID:         uuid.New().String(),
			BookingIDs: []string{booking.ID},
			UserID:     owner.ID,
			Amount:     booking.TotalPrice,
			Currency:   venue.Currency,
			Method:     req.PaymentMethod,
			Status:     models.PaymentPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		booking.PaymentID = payment.ID

		win := models.BookedWindow{Start: window.Start, End: window.End, BookingID: booking.ID}
		if err := e.Ledger.AppendWindow(tc, venue.ID, req.CourtNumber, req.Date, win, entry.Version); err != nil {
			return err
		}
		if err := e.Bookings.Create(tc, &booking); err != nil {
			return err
		}
		return e.Payments.Create(tc, &payment)
	})
	if err != nil {
		return nil, nil, err
	}
	return &booking, &payment, nil
}

// validateRequest checks venue state and window shape before any write.
func (e *DefaultReservationEngine) validateRequest(
	ctx context.Context,
	venueID string,
	court int,
	date string,
	start, end int,
) (*models.Venue, time.Time, models.TimeWindow, error) {
	window := models.TimeWindow{Start: start, End: end}

	venue, err := e.Venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, time.Time{}, window, fmt.Errorf("fetch venue: %w", err)
	}
	if venue == nil {
		return nil, time.Time{}, window, NewNotFoundError("venue %s not found", venueID)
	}
	if !venue.Active {
		return nil, time.Time{}, window, NewValidationError("venue is not accepting bookings")
	}
	if court < 1 || court > venue.CourtCount {
		return nil, time.Time{}, window, NewValidationError("court %d does not exist at this venue", court)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, time.Time{}, window, NewValidationError("invalid date %q", date)
	}
	if err := validateWindow(venue, window); err != nil {
		return nil, time.Time{}, window, err
	}
	return venue, day, window, nil
}

func validateWindow(venue *models.Venue, w models.TimeWindow) error {
	duration := w.End - w.Start
	if duration <= 0 {
		return NewValidationError("booking window end must be after start")
	}
	if duration%venue.SlotDuration != 0 {
		return NewValidationError("booking must align to %d-minute slots", venue.SlotDuration)
	}
	slots := duration / venue.SlotDuration
	if venue.MinSlots > 0 && slots < venue.MinSlots {
		return NewValidationError("booking must cover at least %d slots", venue.MinSlots)
	}
	if venue.MaxSlots > 0 && slots > venue.MaxSlots {
		return NewValidationError("booking must cover at most %d slots", venue.MaxSlots)
	}
	return nil
}

// initialStatus implements the status rule table: online payments and noted
// offline bookings start Pending; a plain cash booking is confirmed on the spot.
func initialStatus(method, note string, venue *models.Venue) string {
	if method == models.PaymentMethodCash && note == "" && !venue.RequiresOwnerApproval {
		return models.BookingStatusConfirmed
	}
	return models.BookingStatusPending
}

func initialApproval(note string, venue *models.Venue) string {
	if note != "" || venue.RequiresOwnerApproval {
		return models.ApprovalStatusPending
	}
	return models.ApprovalStatusNone
}

// startCheckout initiates the gateway session for online payments. Failure
// leaves the booking Pending; a later webhook or retry completes it.
func (e *DefaultReservationEngine) startCheckout(ctx context.Context, payment *models.Payment) string {
	if payment.Method != models.PaymentMethodCard || e.Gateway == nil {
		return ""
	}
	url, ref, err := e.Gateway.InitiateCheckout(ctx, payment)
	if err != nil {
		e.Logger.Error("checkout initiation failed",
			zap.String("paymentID", payment.ID), zap.Error(err))
		return ""
	}
	if err := e.Payments.SetCheckout(ctx, payment.ID, ref, url); err != nil {
		e.Logger.Error("failed to persist checkout reference",
			zap.String("paymentID", payment.ID), zap.Error(err))
	}
	return url
}

func (e *DefaultReservationEngine) publish(ctx context.Context, ev models.BookingEvent) {
	if e.Events == nil {
		return
	}
	if err := e.Events.Publish(ctx, ev); err != nil {
		e.Logger.Error("event publish failed",
			zap.String("type", ev.Type), zap.String("bookingID", ev.BookingID), zap.Error(err))
	}
}

func (e *DefaultReservationEngine) retryLimit() int {
	if e.RetryLimit > 0 {
		return e.RetryLimit
	}
	return 3
}
