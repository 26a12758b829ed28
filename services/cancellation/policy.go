package cancellation

import (
	"math"
	"sort"

	"sportzone/models"
)

// Rule maps a minimum-notice threshold to refund/penalty percentages.
// HoursBefore is an inclusive lower bound on hours until start.
type Rule struct {
	HoursBefore        int
	CustomerRefundPct  int
	OwnerPenaltyPct    int
	ProviderPenaltyPct int
}

// Policy is an ordered rule table, scanned by threshold descending.
type Policy []Rule

// MostRestrictiveRule applies once the booking has started: no refund, full
// penalty. It is a hard rule, not overridable through the table.
var MostRestrictiveRule = Rule{HoursBefore: 0, CustomerRefundPct: 0, OwnerPenaltyPct: 100, ProviderPenaltyPct: 100}

// DefaultPolicy: a full day's notice refunds everything; shorter notice
// refunds half and charges a small venue-side penalty.
var DefaultPolicy = Policy{
	{HoursBefore: 24, CustomerRefundPct: 100, OwnerPenaltyPct: 0, ProviderPenaltyPct: 0},
	{HoursBefore: 0, CustomerRefundPct: 50, OwnerPenaltyPct: 10, ProviderPenaltyPct: 10},
}

// Resolve picks the first rule (thresholds descending) whose threshold is at
// most hoursUntilStart. A started booking (negative hours) never matches and
// takes the most restrictive rule.
func (p Policy) Resolve(hoursUntilStart float64) Rule {
	if hoursUntilStart < 0 {
		return MostRestrictiveRule
	}
	rules := make(Policy, len(p))
	copy(rules, p)
	sort.SliceStable(rules, func(a, b int) bool { return rules[a].HoursBefore > rules[b].HoursBefore })

	for _, rule := range rules {
		if float64(rule.HoursBefore) <= hoursUntilStart {
			return rule
		}
	}
	return MostRestrictiveRule
}

// Quote is the money movement computed before any record is touched.
type Quote struct {
	RefundAmount  int64 `json:"refundAmount"`
	PenaltyAmount int64 `json:"penaltyAmount"`
	RefundPct     int   `json:"refundPct"`
	PenaltyPct    int   `json:"penaltyPct"`
}

// QuoteFor computes the refund and penalty for one booking under the rule.
// The customer refund applies only to the non-fee portion; the platform fee
// is never refundable. Venue-side penalties apply to the full slot value.
func QuoteFor(rule Rule, booking *models.Booking, role string) Quote {
	q := Quote{RefundPct: rule.CustomerRefundPct}
	q.RefundAmount = pct(booking.BookingAmount, rule.CustomerRefundPct)

	switch role {
	case models.RoleOwner:
		q.PenaltyPct = rule.OwnerPenaltyPct
	case models.RoleProvider:
		q.PenaltyPct = rule.ProviderPenaltyPct
	}
	q.PenaltyAmount = pct(booking.TotalPrice, q.PenaltyPct)

	if role == models.RoleOwner || role == models.RoleProvider {
		// The venue side cancelled: the customer is made whole for the full
		// slot value regardless of notice.
		q.RefundPct = 100
		q.RefundAmount = booking.TotalPrice
	}
	return q
}

func pct(amount int64, percentage int) int64 {
	if percentage <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) * float64(percentage) / 100))
}
