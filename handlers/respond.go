package handlers

import (
	"errors"
	"net/http"

	"sportzone/services/booking"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps typed service errors onto HTTP statuses. Unknown
// errors become opaque 500s; details never leak storage internals.
func writeServiceError(c *gin.Context, err error) {
	var batch *booking.BatchConflictError
	if errors.As(err, &batch) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "some dates are unavailable",
			"conflicts": batch.Conflicts,
		})
		return
	}

	var se *booking.Error
	if errors.As(err, &se) {
		c.JSON(statusForCode(se.Code), gin.H{"error": se.Message, "code": se.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusForCode(code string) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeForbidden:
		return http.StatusForbidden
	case booking.CodeConflict, booking.CodeHoliday, booking.CodeStateConflict:
		return http.StatusConflict
	case booking.CodeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
