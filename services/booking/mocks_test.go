package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	bookingRepo "sportzone/database/repository/booking"
	ledgerRepo "sportzone/database/repository/ledger"
	paymentRepo "sportzone/database/repository/payment"
	"sportzone/models"
)

// In-memory fakes for the repository surfaces. They honor the same contracts
// as the real implementations (version fencing, guarded transitions) so the
// engine's protocol can be exercised without a database.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeVenueRepo struct {
	venues map[string]*models.Venue
}

func (f *fakeVenueRepo) GetByID(_ context.Context, id string) (*models.Venue, error) {
	return f.venues[id], nil
}

type fakeLedgerRepo struct {
	entries map[string]*models.DayLedger
	// failAppends makes the next N AppendWindow calls lose the version race.
	failAppends int
	appendCalls int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[string]*models.DayLedger)}
}

func ledgerFakeKey(venueID string, court int, date string) string {
	return fmt.Sprintf("%s/%d/%s", venueID, court, date)
}

func (f *fakeLedgerRepo) UpsertAndBump(_ context.Context, venueID string, court int, date string) (*models.DayLedger, error) {
	key := ledgerFakeKey(venueID, court, date)
	entry, ok := f.entries[key]
	if !ok {
		entry = &models.DayLedger{
			ID:          key,
			VenueID:     venueID,
			CourtNumber: court,
			Date:        date,
		}
		f.entries[key] = entry
	}
	entry.Version++
	snapshot := *entry
	snapshot.BookedSlots = append([]models.BookedWindow(nil), entry.BookedSlots...)
	return &snapshot, nil
}

func (f *fakeLedgerRepo) AppendWindow(_ context.Context, venueID string, court int, date string, w models.BookedWindow, version int64) error {
	f.appendCalls++
	if f.failAppends > 0 {
		f.failAppends--
		return ledgerRepo.ErrVersionMismatch
	}
	entry, ok := f.entries[ledgerFakeKey(venueID, court, date)]
	if !ok || entry.Version != version {
		return ledgerRepo.ErrVersionMismatch
	}
	entry.BookedSlots = append(entry.BookedSlots, w)
	entry.Version++
	return nil
}

func (f *fakeLedgerRepo) RemoveWindow(_ context.Context, venueID string, court int, date string, bookingID string) error {
	entry, ok := f.entries[ledgerFakeKey(venueID, court, date)]
	if !ok {
		return ledgerRepo.ErrLedgerNotFound
	}
	kept := entry.BookedSlots[:0]
	for _, w := range entry.BookedSlots {
		if w.BookingID != bookingID {
			kept = append(kept, w)
		}
	}
	entry.BookedSlots = kept
	entry.Version++
	return nil
}

func (f *fakeLedgerRepo) SetHoliday(_ context.Context, venueID string, court int, date string, reason string) error {
	key := ledgerFakeKey(venueID, court, date)
	entry, ok := f.entries[key]
	if !ok {
		entry = &models.DayLedger{ID: key, VenueID: venueID, CourtNumber: court, Date: date}
		f.entries[key] = entry
	}
	entry.IsHoliday = true
	entry.HolidayReason = reason
	entry.Version++
	return nil
}

func (f *fakeLedgerRepo) Get(_ context.Context, venueID string, court int, date string) (*models.DayLedger, error) {
	entry, ok := f.entries[ledgerFakeKey(venueID, court, date)]
	if !ok {
		return nil, nil
	}
	snapshot := *entry
	return &snapshot, nil
}

func (f *fakeLedgerRepo) GetRange(_ context.Context, venueID string, court int, fromDate, toDate string) ([]models.DayLedger, error) {
	var out []models.DayLedger
	for _, entry := range f.entries {
		if entry.VenueID == venueID && entry.CourtNumber == court &&
			entry.Date >= fromDate && entry.Date <= toDate {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out, nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) CreateMany(_ context.Context, bs []models.Booking) error {
	for i := range bs {
		clone := bs[i]
		f.bookings[clone.ID] = &clone
	}
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) GetByGroupID(_ context.Context, groupID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.GroupID == groupID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByPaymentID(_ context.Context, paymentID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PaymentID == paymentID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out, nil
}

func (f *fakeBookingRepo) MarkPaid(_ context.Context, id string, status string) (bool, error) {
	b, ok := f.bookings[id]
	if !ok {
		return false, errors.New("booking not found")
	}
	first := b.PaymentStatus != models.PaymentStatusPaid
	b.PaymentStatus = models.PaymentStatusPaid
	b.Status = status
	return first, nil
}

func (f *fakeBookingRepo) TransitionStatus(_ context.Context, id string, from []string, to string) error {
	b, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			return nil
		}
	}
	return fmt.Errorf("status %s not in [%s]: %w", b.Status, strings.Join(from, ","), bookingRepo.ErrNoTransition)
}

func (f *fakeBookingRepo) MarkCancelled(_ context.Context, id string, reason string, refunded bool) error {
	b, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s missing: %w", id, bookingRepo.ErrNoTransition)
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return fmt.Errorf("status %s not cancellable: %w", b.Status, bookingRepo.ErrNoTransition)
	}
	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	if refunded {
		b.PaymentStatus = models.PaymentStatusRefunded
	}
	return nil
}

func (f *fakeBookingRepo) SetApproval(_ context.Context, id string, approval string) error {
	b, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.ApprovalStatus = approval
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	clone := *p
	f.payments[p.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) SetStatus(_ context.Context, id string, status string) error {
	p, ok := f.payments[id]
	if !ok {
		return errors.New("payment not found")
	}
	p.Status = status
	return nil
}

func (f *fakePaymentRepo) TransitionStatus(_ context.Context, id string, from []string, to string) error {
	p, ok := f.payments[id]
	if !ok {
		return paymentRepo.ErrNoTransition
	}
	for _, s := range from {
		if p.Status == s {
			p.Status = to
			return nil
		}
	}
	return paymentRepo.ErrNoTransition
}

func (f *fakePaymentRepo) SetCheckout(_ context.Context, id string, gatewayRef, checkoutURL string) error {
	p, ok := f.payments[id]
	if !ok {
		return errors.New("payment not found")
	}
	p.GatewayRef = gatewayRef
	p.CheckoutURL = checkoutURL
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeWalletRepo struct {
	pending   map[string]int64
	available map[string]int64
	refunds   map[string]int64
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		pending:   make(map[string]int64),
		available: make(map[string]int64),
		refunds:   make(map[string]int64),
	}
}

func (f *fakeWalletRepo) CreditPending(_ context.Context, ownerID string, amount int64) error {
	f.pending[ownerID] += amount
	return nil
}

func (f *fakeWalletRepo) DebitPending(_ context.Context, ownerID string, amount int64) error {
	f.pending[ownerID] -= amount
	return nil
}

func (f *fakeWalletRepo) ReleasePending(_ context.Context, ownerID string, amount int64) error {
	f.pending[ownerID] -= amount
	f.available[ownerID] += amount
	return nil
}

func (f *fakeWalletRepo) CreditRefundBalance(_ context.Context, ownerID string, amount int64) error {
	f.refunds[ownerID] += amount
	return nil
}

type fakeGateway struct {
	url   string
	ref   string
	err   error
	calls int
}

func (f *fakeGateway) InitiateCheckout(_ context.Context, p *models.Payment) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.url, f.ref, nil
}

type fakeEvents struct {
	events []models.BookingEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev models.BookingEvent) error {
	f.events = append(f.events, ev)
	return nil
}
