package handlers

// HandlerBundle groups all endpoint handlers into one struct so route
// registration takes a single dependency.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Cancellation *CancellationHandler
	Webhook      *WebhookHandler
}
