package handlers

import (
	"pijatku/database/repository"
)

// HandlerBundle groups the endpoint handlers registered by the router.
type HandlerBundle struct {
	UserRepo  repository.UserRepository
	JWTSecret []byte

	Directory *DirectoryHandler
	Booking   *BookingHandler
	Payment   *PaymentHandler
	Review    *ReviewHandler
	Chat      *ChatHandler
	Events    *EventsHandler
	Profile   *ProfileHandler
	Payout    *PayoutHandler
	Admin     *AdminHandler
	Health    *HealthHandler
}
