package handlers

import (
	"context"
	"net/http"

	bookingRepo "sportzone/database/repository/booking"
	"sportzone/models"
	"sportzone/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the reservation engine over HTTP.
type BookingHandler struct {
	Engine   booking.ReservationEngine
	Bookings bookingRepo.BookingRepository
}

type createBookingInput struct {
	VenueID       string               `json:"venueId" binding:"required"`
	CourtNumber   int                  `json:"courtNumber" binding:"required"`
	Date          string               `json:"date" binding:"required"`
	Start         int                  `json:"start"`
	End           int                  `json:"end" binding:"required"`
	PaymentMethod string               `json:"paymentMethod" binding:"required"`
	Note          string               `json:"note"`
	Guest         *models.GuestContact `json:"guest"`
}

// CreateBooking handles POST /bookings. Authenticated callers book under
// their own id; anonymous callers must supply guest contact info.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req := booking.CreateBookingRequest{
		UserID:        c.GetString("userID"),
		Guest:         input.Guest,
		VenueID:       input.VenueID,
		CourtNumber:   input.CourtNumber,
		Date:          input.Date,
		Start:         input.Start,
		End:           input.End,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
	}
	if req.UserID != "" {
		req.Guest = nil
	}

	result, err := h.Engine.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type recurringBookingInput struct {
	VenueID       string               `json:"venueId" binding:"required"`
	CourtNumber   int                  `json:"courtNumber" binding:"required"`
	Dates         []string             `json:"dates"`
	StartDate     string               `json:"startDate"`
	Days          int                  `json:"days"`
	Start         int                  `json:"start"`
	End           int                  `json:"end" binding:"required"`
	PaymentMethod string               `json:"paymentMethod" binding:"required"`
	Note          string               `json:"note"`
	Guest         *models.GuestContact `json:"guest"`
}

// CreateRecurringBooking handles POST /bookings/recurring.
func (h *BookingHandler) CreateRecurringBooking(c *gin.Context) {
	var input recurringBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req := booking.RecurringBookingRequest{
		UserID:        c.GetString("userID"),
		Guest:         input.Guest,
		VenueID:       input.VenueID,
		CourtNumber:   input.CourtNumber,
		Dates:         input.Dates,
		StartDate:     input.StartDate,
		Days:          input.Days,
		Start:         input.Start,
		End:           input.End,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
	}
	if req.UserID != "" {
		req.Guest = nil
	}

	result, err := h.Engine.CreateRecurringBooking(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CheckIn handles POST /bookings/:id/check-in.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.Engine.CheckIn)
}

// Complete handles POST /bookings/:id/complete.
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.Engine.Complete)
}

// Approve handles POST /bookings/:id/approve (owner only).
func (h *BookingHandler) Approve(c *gin.Context) {
	h.transition(c, h.Engine.Approve)
}

// Reject handles POST /bookings/:id/reject (owner only).
func (h *BookingHandler) Reject(c *gin.Context) {
	h.transition(c, h.Engine.Reject)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*models.Booking, error)) {
	b, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
