package routes

import (
	"net/http"
	"time"

	"sportzone/handlers"
	"sportzone/middleware"
	"sportzone/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the public availability endpoints and
// the owner-side holiday marking.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/venues")
	{
		api.GET("/:venueID/availability", hb.Availability.GetAvailability)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleOwner))
		protected.POST("/:venueID/holidays", hb.Availability.MarkHoliday)
	}
}

// RegisterBookingRoutes sets up the endpoints for the reservation engine.
// Creation allows anonymous guests; lifecycle transitions require a token.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", middleware.OptionalAuthMiddleware(), hb.Booking.CreateBooking)
		api.POST("/recurring", middleware.OptionalAuthMiddleware(), hb.Booking.CreateRecurringBooking)

		authed := api.Group("")
		authed.Use(middleware.JWTAuthMiddleware())
		authed.GET("/:id", hb.Booking.GetBooking)
		authed.GET("/:id/cancellation-preview", hb.Cancellation.Preview)
		authed.POST("/:id/cancel", hb.Cancellation.Cancel)

		venueSide := api.Group("")
		venueSide.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleOwner, models.RoleProvider))
		venueSide.POST("/:id/check-in", hb.Booking.CheckIn)
		venueSide.POST("/:id/complete", hb.Booking.Complete)
		venueSide.POST("/:id/approve", hb.Booking.Approve)
		venueSide.POST("/:id/reject", hb.Booking.Reject)
	}
}

// RegisterWebhookRoutes registers the normalized payment callback endpoint.
// Gateway signature verification happens before events reach this shape, so
// the route carries no user auth.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhooks")
	{
		api.POST("/payment", hb.Webhook.HandlePaymentEvent)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm SportZone"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
