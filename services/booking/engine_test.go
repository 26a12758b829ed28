package booking

import (
	"context"
	"testing"
	"time"

	"sportzone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDate = "2026-09-07"

func testDay(t *testing.T) time.Time {
	t.Helper()
	day, err := time.Parse(dateLayout, testDate)
	require.NoError(t, err)
	return day
}

type engineFixture struct {
	engine   *DefaultReservationEngine
	venues   *fakeVenueRepo
	ledger   *fakeLedgerRepo
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	users    *fakeUserRepo
	wallets  *fakeWalletRepo
	gateway  *fakeGateway
	events   *fakeEvents
}

func newEngineFixture(t *testing.T) *engineFixture {
	venue := testVenue(testDay(t).Weekday())
	customer := &models.User{ID: "user-1", Email: "ana@example.com", Role: models.RoleCustomer}

	f := &engineFixture{
		venues:   &fakeVenueRepo{venues: map[string]*models.Venue{venue.ID: venue}},
		ledger:   newFakeLedgerRepo(),
		bookings: newFakeBookingRepo(),
		payments: newFakePaymentRepo(),
		users:    newFakeUserRepo(customer),
		wallets:  newFakeWalletRepo(),
		gateway:  &fakeGateway{url: "https://pay.example/session", ref: "cs_123"},
		events:   &fakeEvents{},
	}
	f.engine = &DefaultReservationEngine{
		Venues:     f.venues,
		Ledger:     f.ledger,
		Bookings:   f.bookings,
		Payments:   f.payments,
		Users:      f.users,
		Wallets:    f.wallets,
		Tx:         fakeTxRunner{},
		Gateway:    f.gateway,
		Events:     f.events,
		FeeRate:    0.05,
		RetryLimit: 3,
		Logger:     zap.NewNop(),
	}
	return f
}

func cashRequest() CreateBookingRequest {
	return CreateBookingRequest{
		UserID:        "user-1",
		VenueID:       "venue-1",
		CourtNumber:   1,
		Date:          testDate,
		Start:         1080,
		End:           1200,
		PaymentMethod: models.PaymentMethodCash,
	}
}

func TestCreateBookingCashConfirmsImmediately(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)

	b := result.Booking
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, models.ApprovalStatusNone, b.ApprovalStatus)
	assert.Equal(t, models.PaymentStatusUnpaid, b.PaymentStatus)
	assert.Equal(t, int64(300), b.BookingAmount, "two evening slots at 1.5x")
	assert.Equal(t, int64(15), b.PlatformFee)
	assert.Equal(t, int64(315), b.TotalPrice)
	assert.Empty(t, result.CheckoutURL, "cash bookings never open a checkout")
	assert.Zero(t, f.gateway.calls)

	// Slot held in the ledger under the booking id.
	entry, err := f.ledger.Get(context.Background(), "venue-1", 1, testDate)
	require.NoError(t, err)
	require.Len(t, entry.BookedSlots, 1)
	assert.Equal(t, b.ID, entry.BookedSlots[0].BookingID)

	// Payment record linked both ways.
	p, err := f.payments.GetByID(context.Background(), b.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, p.BookingIDs)
	assert.Equal(t, int64(315), p.Amount)
	assert.Equal(t, models.PaymentPending, p.Status)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.EventBookingCreated, f.events.events[0].Type)
}

func TestCreateBookingCardStartsCheckout(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.PaymentMethod = models.PaymentMethodCard

	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, "https://pay.example/session", result.CheckoutURL)
	assert.Equal(t, 1, f.gateway.calls)

	p, err := f.payments.GetByID(context.Background(), result.Booking.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "cs_123", p.GatewayRef)
	assert.Equal(t, "https://pay.example/session", p.CheckoutURL)
}

func TestInitialStatusRuleTable(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		note         string
		needApproval bool
		wantStatus   string
		wantApproval string
	}{
		{"plain cash confirms", models.PaymentMethodCash, "", false, models.BookingStatusConfirmed, models.ApprovalStatusNone},
		{"cash with note needs review", models.PaymentMethodCash, "birthday setup", false, models.BookingStatusPending, models.ApprovalStatusPending},
		{"card stays pending until paid", models.PaymentMethodCard, "", false, models.BookingStatusPending, models.ApprovalStatusNone},
		{"approval-required venue holds cash too", models.PaymentMethodCash, "", true, models.BookingStatusPending, models.ApprovalStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t)
			f.venues.venues["venue-1"].RequiresOwnerApproval = tt.needApproval
			req := cashRequest()
			req.PaymentMethod = tt.method
			req.Note = tt.note

			result, err := f.engine.CreateBooking(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Booking.Status)
			assert.Equal(t, tt.wantApproval, result.Booking.ApprovalStatus)
		})
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)

	// Second request overlaps 19:00-21:00 against the held 18:00-20:00.
	req := cashRequest()
	req.Start = 1140
	req.End = 1260
	_, err = f.engine.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeConflict))

	// Nothing extra was written.
	entry, _ := f.ledger.Get(context.Background(), "venue-1", 1, testDate)
	assert.Len(t, entry.BookedSlots, 1)
	assert.Len(t, f.bookings.bookings, 1)
}

func TestCreateBookingBackToBackWindows(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)

	// 20:00-21:00 starts exactly where the first ends.
	req := cashRequest()
	req.Start = 1200
	req.End = 1260
	_, err = f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	entry, _ := f.ledger.Get(context.Background(), "venue-1", 1, testDate)
	assert.Len(t, entry.BookedSlots, 2)
}

func TestCreateBookingRetriesLostRace(t *testing.T) {
	f := newEngineFixture(t)
	f.ledger.failAppends = 1

	result, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Booking)
	assert.Equal(t, 2, f.ledger.appendCalls, "one lost race, one successful retry")
}

func TestCreateBookingRetryLimitExhausted(t *testing.T) {
	f := newEngineFixture(t)
	f.ledger.failAppends = 10

	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeConflict))
	assert.Equal(t, 3, f.ledger.appendCalls, "bounded by the retry limit")
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBookingOnHoliday(t *testing.T) {
	f := newEngineFixture(t)
	require.NoError(t, f.engine.MarkHoliday(context.Background(), "venue-1", testDate, "maintenance"))

	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeHoliday))
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*CreateBookingRequest)
		wantCode string
	}{
		{"unknown venue", func(r *CreateBookingRequest) { r.VenueID = "nope" }, CodeNotFound},
		{"court out of range", func(r *CreateBookingRequest) { r.CourtNumber = 9 }, CodeValidation},
		{"bad date", func(r *CreateBookingRequest) { r.Date = "07-09-2026" }, CodeValidation},
		{"misaligned duration", func(r *CreateBookingRequest) { r.End = 1170 }, CodeValidation},
		{"inverted window", func(r *CreateBookingRequest) { r.Start, r.End = 1200, 1080 }, CodeValidation},
		{"too many slots", func(r *CreateBookingRequest) { r.Start, r.End = 480, 840 }, CodeValidation},
		{"unknown user", func(r *CreateBookingRequest) { r.UserID = "ghost" }, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t)
			req := cashRequest()
			tt.mutate(&req)

			_, err := f.engine.CreateBooking(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.wantCode), "got %v", err)
			assert.Empty(t, f.bookings.bookings, "no writes on rejected input")
			assert.Zero(t, f.ledger.appendCalls)
		})
	}
}

func TestCreateBookingInactiveVenue(t *testing.T) {
	f := newEngineFixture(t)
	f.venues.venues["venue-1"].Active = false

	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeValidation))
}

func TestCreateBookingGuest(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.UserID = ""
	req.Guest = &models.GuestContact{Email: "walkin@example.com", Name: "Walk In"}

	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	u, err := f.users.GetByEmail(context.Background(), "walkin@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.Guest)
	assert.Equal(t, u.ID, result.Booking.UserID)

	// A second guest booking with the same email reuses the record.
	req2 := cashRequest()
	req2.UserID = ""
	req2.Start, req2.End = 600, 660
	req2.Guest = &models.GuestContact{Email: "walkin@example.com"}
	result2, err := f.engine.CreateBooking(context.Background(), req2)
	require.NoError(t, err)
	assert.Equal(t, u.ID, result2.Booking.UserID)
}

func TestCreateBookingGuestNeedsEmail(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.UserID = ""
	req.Guest = &models.GuestContact{Name: "No Email"}

	_, err := f.engine.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeValidation))
}

func TestCheckInAndComplete(t *testing.T) {
	f := newEngineFixture(t)
	result, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)
	id := result.Booking.ID

	b, err := f.engine.CheckIn(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedIn, b.Status)

	// A second check-in is a state conflict, not a silent no-op.
	_, err = f.engine.CheckIn(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStateConflict))

	b, err = f.engine.Complete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)
}

func TestCompleteReleasesOwnerEarnings(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.PaymentMethod = models.PaymentMethodCard
	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	id := result.Booking.ID

	// Payment success credited the owner's pending balance for this booking.
	_, err = f.bookings.MarkPaid(context.Background(), id, models.BookingStatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, f.wallets.CreditPending(context.Background(), "owner-1", 300))

	_, err = f.engine.CheckIn(context.Background(), id)
	require.NoError(t, err)
	_, err = f.engine.Complete(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.wallets.pending["owner-1"])
	assert.Equal(t, int64(300), f.wallets.available["owner-1"])
}

func TestCompleteUnpaidMovesNoEarnings(t *testing.T) {
	f := newEngineFixture(t)
	result, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)
	id := result.Booking.ID

	_, err = f.engine.CheckIn(context.Background(), id)
	require.NoError(t, err)
	_, err = f.engine.Complete(context.Background(), id)
	require.NoError(t, err)

	assert.Empty(t, f.wallets.available, "cash settles at the venue, nothing was held")
	assert.Empty(t, f.wallets.pending)
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.PaymentMethod = models.PaymentMethodCard
	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	_, err = f.engine.CheckIn(context.Background(), result.Booking.ID)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStateConflict))
}

func TestApproveConfirmsPaidBooking(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.Note = "needs the far court net lowered"
	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	id := result.Booking.ID
	require.Equal(t, models.ApprovalStatusPending, result.Booking.ApprovalStatus)

	// Payment lands while approval is still pending; booking stays Pending.
	_, err = f.bookings.MarkPaid(context.Background(), id, models.BookingStatusPending)
	require.NoError(t, err)

	b, err := f.engine.Approve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, b.ApprovalStatus)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	// Approving twice is rejected.
	_, err = f.engine.Approve(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStateConflict))
}

func TestRejectLeavesStatusAlone(t *testing.T) {
	f := newEngineFixture(t)
	req := cashRequest()
	req.Note = "corporate event"
	result, err := f.engine.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	b, err := f.engine.Reject(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusRejected, b.ApprovalStatus)
	assert.Equal(t, models.BookingStatusPending, b.Status)
}

func TestGetAvailability(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.engine.CreateBooking(context.Background(), cashRequest())
	require.NoError(t, err)

	day := testDay(t)
	days, err := f.engine.GetAvailability(context.Background(), "venue-1", 1, day, day)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Slots, 14)

	for _, slot := range days[0].Slots {
		booked := slot.Start >= 1080 && slot.Start < 1200
		assert.Equal(t, !booked, slot.Available, "slot at %d", slot.Start)
	}
}

func TestGetAvailabilityHoliday(t *testing.T) {
	f := newEngineFixture(t)
	require.NoError(t, f.engine.MarkHoliday(context.Background(), "venue-1", testDate, "tournament"))

	day := testDay(t)
	days, err := f.engine.GetAvailability(context.Background(), "venue-1", 1, day, day)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].IsHoliday)
	assert.Empty(t, days[0].Slots)
}
