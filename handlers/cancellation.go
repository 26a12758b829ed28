package handlers

import (
	"net/http"

	"sportzone/models"
	"sportzone/services/cancellation"

	"github.com/gin-gonic/gin"
)

// CancellationHandler exposes the preview and cancel flows.
type CancellationHandler struct {
	Service *cancellation.CancellationService
}

// Preview handles GET /bookings/:id/cancellation-preview. It always answers,
// even for bookings the cancel flow would reject, so clients can show the
// would-be outcome.
func (h *CancellationHandler) Preview(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		role = models.RoleCustomer
	}
	quote, err := h.Service.Preview(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Cancel handles POST /bookings/:id/cancel.
func (h *CancellationHandler) Cancel(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a bare cancel carries no reason.
	_ = c.ShouldBindJSON(&input)

	actor := cancellation.Actor{
		ID:   c.GetString("userID"),
		Role: c.GetString("role"),
	}
	if actor.Role == "" {
		actor.Role = models.RoleCustomer
	}

	b, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), actor, input.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
