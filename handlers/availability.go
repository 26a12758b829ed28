package handlers

import (
	"net/http"
	"strconv"
	"time"

	"sportzone/services/booking"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// AvailabilityHandler serves the merged slot/ledger availability view.
type AvailabilityHandler struct {
	Engine booking.ReservationEngine
}

// GetAvailability handles GET /venues/:venueID/availability?court=1&from=...&to=...
// Defaults: court 1, from today, to seven days out.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	venueID := c.Param("venueID")

	court := 1
	if raw := c.Query("court"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid court number"})
			return
		}
		court = parsed
	}

	from := time.Now().Truncate(24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	to := from.AddDate(0, 0, 6)
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	days, err := h.Engine.GetAvailability(c.Request.Context(), venueID, court, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venueId": venueID, "court": court, "days": days})
}

// MarkHoliday handles POST /venues/:venueID/holidays (owner only).
func (h *AvailabilityHandler) MarkHoliday(c *gin.Context) {
	venueID := c.Param("venueID")
	var input struct {
		Date   string `json:"date" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Engine.MarkHoliday(c.Request.Context(), venueID, input.Date, input.Reason); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venueId": venueID, "date": input.Date, "isHoliday": true})
}
