package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	ledgerRepo "sportzone/database/repository/ledger"
	"sportzone/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRecurringBooking books the same window on every date in the batch,
// all-or-nothing: conflicts are checked across all dates up front and again
// inside the transaction, and any failing date rejects the entire batch with a
// per-date report. The batch shares one payment and a tiered bulk discount
// computed over the ranked per-day prices.
func (e *DefaultReservationEngine) CreateRecurringBooking(ctx context.Context, req RecurringBookingRequest) (*RecurringBookingResult, error) {
	dates, err := expandDates(req)
	if err != nil {
		return nil, err
	}

	venue, _, window, err := e.validateRequest(ctx, req.VenueID, req.CourtNumber, dates[0], req.Start, req.End)
	if err != nil {
		return nil, err
	}

	prices := make([]int64, len(dates))
	for i, date := range dates {
		day, perr := time.Parse(dateLayout, date)
		if perr != nil {
			return nil, NewValidationError("invalid date %q", date)
		}
		if prices[i], err = QuoteWindow(venue, day, window); err != nil {
			return nil, err
		}
	}

	owner, err := e.resolveOwner(ctx, req.UserID, req.Guest)
	if err != nil {
		return nil, err
	}

	// Up-front batch conflict check so the caller gets the full report before
	// any write is attempted.
	conflicts, err := e.precheckDates(ctx, venue.ID, req.CourtNumber, dates, window)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &BatchConflictError{Conflicts: conflicts}
	}

	discounted := ApplyBulkDiscount(prices, DefaultDiscountTiers)

	var result *RecurringBookingResult
	for attempt := 0; attempt < e.retryLimit(); attempt++ {
		result, err = e.reserveBatchOnce(ctx, venue, owner, req, dates, window, discounted)
		if errors.Is(err, ledgerRepo.ErrVersionMismatch) {
			e.Logger.Warn("lost batch reservation race, retrying",
				zap.String("venueID", venue.ID), zap.Int("attempt", attempt+1))
			continue
		}
		break
	}
	if errors.Is(err, ledgerRepo.ErrVersionMismatch) {
		return nil, NewConflictError("one of the requested days is no longer available, please refresh")
	}
	if err != nil {
		return nil, err
	}

	result.CheckoutURL = e.startCheckout(ctx, result.Payment)
	for i := range result.Bookings {
		b := &result.Bookings[i]
		e.publish(ctx, models.BookingEvent{
			Type:       models.EventBookingCreated,
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
	return result, nil
}

func (e *DefaultReservationEngine) reserveBatchOnce(
	ctx context.Context,
	venue *models.Venue,
	owner *models.User,
	req RecurringBookingRequest,
	dates []string,
	window models.TimeWindow,
	dayAmounts []int64,
) (*RecurringBookingResult, error) {
	groupID := uuid.New().String()
	now := time.Now()

	bookings := make([]models.Booking, len(dates))
	payment := models.Payment{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		Currency:  venue.Currency,
		Method:    req.PaymentMethod,
		Status:    models.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, date := range dates {
		fee := PlatformFee(dayAmounts[i], e.FeeRate)
		bookings[i] = models.Booking{
			ID:             uuid.New().String(),
			UserID:         owner.ID,
			VenueID:        venue.ID,
			CourtNumber:    req.CourtNumber,
			Date:           date,
			Start:          window.Start,
			End:            window.End,
			Status:         initialStatus(req.PaymentMethod, req.Note, venue),
			PaymentStatus:  models.PaymentStatusUnpaid,
			ApprovalStatus: initialApproval(req.Note, venue),
			Note:           req.Note,
			BookingAmount:  dayAmounts[i],
			PlatformFee:    fee,
			TotalPrice:     dayAmounts[i] + fee,
			PaymentID:      payment.ID,
			GroupID:        groupID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		payment.BookingIDs = append(payment.BookingIDs, bookings[i].ID)
		payment.Amount += bookings[i].TotalPrice
	}

	err := e.Tx.WithTransaction(ctx, func(tc context.Context) error {
		for i, date := range dates {
			entry, err := e.Ledger.UpsertAndBump(tc, venue.ID, req.CourtNumber, date)
			if err != nil {
				return err
			}
			if entry.IsHoliday {
				// Raced with a holiday marking since the pre-check; aborting
				// here leaves zero bookings for the whole batch.
				return &BatchConflictError{Conflicts: []DateConflict{{Date: date, Reason: "holiday"}}}
			}
			if HasConflict(window, entry.BookedSlots) {
				return &BatchConflictError{Conflicts: []DateConflict{{Date: date, Reason: "slot already booked"}}}
			}
			win := models.BookedWindow{Start: window.Start, End: window.End, BookingID: bookings[i].ID}
			if err := e.Ledger.AppendWindow(tc, venue.ID, req.CourtNumber, date, win, entry.Version); err != nil {
				return err
			}
		}
		if err := e.ensureOwner(tc, owner); err != nil {
			return err
		}
		if err := e.Bookings.CreateMany(tc, bookings); err != nil {
			return err
		}
		return e.Payments.Create(tc, &payment)
	})
	if err != nil {
		return nil, err
	}
	return &RecurringBookingResult{Bookings: bookings, Payment: &payment}, nil
}

// precheckDates collects conflicts across every requested date without writing.
func (e *DefaultReservationEngine) precheckDates(
	ctx context.Context,
	venueID string,
	court int,
	dates []string,
	window models.TimeWindow,
) ([]DateConflict, error) {
	var conflicts []DateConflict
	for _, date := range dates {
		entry, err := e.Ledger.Get(ctx, venueID, court, date)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		if entry.IsHoliday {
			conflicts = append(conflicts, DateConflict{Date: date, Reason: "holiday"})
			continue
		}
		if HasConflict(window, entry.BookedSlots) {
			conflicts = append(conflicts, DateConflict{Date: date, Reason: "slot already booked"})
		}
	}
	return conflicts, nil
}

func expandDates(req RecurringBookingRequest) ([]string, error) {
	if len(req.Dates) > 0 {
		seen := make(map[string]bool, len(req.Dates))
		var dates []string
		for _, date := range req.Dates {
			if _, err := time.Parse(dateLayout, date); err != nil {
				return nil, NewValidationError("invalid date %q", date)
			}
			if !seen[date] {
				seen[date] = true
				dates = append(dates, date)
			}
		}
		sort.Strings(dates)
		return dates, nil
	}

	if req.StartDate == "" || req.Days < 2 {
		return nil, NewValidationError("a recurring booking needs explicit dates or a start date with at least 2 days")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, NewValidationError("invalid start date %q", req.StartDate)
	}
	dates := make([]string, req.Days)
	for i := 0; i < req.Days; i++ {
		dates[i] = start.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates, nil
}
