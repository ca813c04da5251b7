package routes

import (
	"strings"
	"time"

	"pijatku/config"
	"pijatku/handlers"
	"pijatku/middleware"
	"pijatku/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterDirectoryRoutes registers the public therapist directory.
func RegisterDirectoryRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	dir := api.Group("/directory")
	{
		dir.GET("/therapists", hb.Directory.SearchTherapists)
		dir.GET("/therapists/:id", hb.Directory.GetTherapist)
		dir.GET("/options", hb.Directory.Options)
	}
	api.GET("/therapists/:id/reviews", hb.Review.ListTherapistReviews)
}

// RegisterBookingRoutes registers bookings and everything hanging off one.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.Booking.ListBookings)
		bookings.POST("", middleware.RequireRole(models.RoleClient), hb.Booking.CreateBooking)
		bookings.GET("/:id", hb.Booking.GetBooking)
		bookings.POST("/:id/confirm", hb.Booking.Transition(models.BookingConfirmed))
		bookings.POST("/:id/start", hb.Booking.Transition(models.BookingInProgress))
		bookings.POST("/:id/complete", hb.Booking.Transition(models.BookingCompleted))
		bookings.POST("/:id/cancel", hb.Booking.Transition(models.BookingCancelled))

		bookings.POST("/:id/payment", hb.Payment.CreatePayment)
		bookings.POST("/:id/review", middleware.RequireRole(models.RoleClient), hb.Review.CreateReview)
		bookings.POST("/:id/messages", hb.Chat.SendMessage)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/:id/capture", hb.Payment.CapturePayment)
		payments.POST("/:id/fail", hb.Payment.FailPayment)
	}
}

// RegisterChatRoutes registers conversations and the realtime stream.
func RegisterChatRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	messages := api.Group("/messages")
	{
		messages.GET("", hb.Chat.ListConversations)
		messages.GET("/:id", hb.Chat.GetConversation)
		messages.POST("/:id/read", hb.Chat.MarkRead)
	}
	api.GET("/events", hb.Events.Stream)
}

// RegisterProfileRoutes registers the caller's own profile and payouts.
func RegisterProfileRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	therapistOnly := middleware.RequireRole(models.RoleTherapist)
	profile := api.Group("/profile")
	{
		profile.GET("", hb.Profile.GetProfile)
		profile.PATCH("", hb.Profile.UpdateProfile)
		profile.PUT("/availability", therapistOnly, hb.Profile.SetAvailability)
		profile.POST("/role", hb.Profile.SwitchRole)
		profile.POST("/photos", therapistOnly, hb.Profile.UploadPhoto)
	}
	payouts := api.Group("/payouts", therapistOnly)
	{
		payouts.POST("", hb.Payout.RequestPayout)
		payouts.GET("", hb.Payout.ListMyPayouts)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/analytics", hb.Admin.GetAnalytics)
		admin.GET("/payouts", hb.Admin.ListPayouts)
		admin.POST("/payouts/:id/approve", hb.Admin.PayoutAction(hb.Admin.Payouts.Approve))
		admin.POST("/payouts/:id/reject", hb.Admin.PayoutAction(hb.Admin.Payouts.Reject))
		admin.POST("/payouts/:id/complete", hb.Admin.PayoutAction(hb.Admin.Payouts.Complete))
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(corsMiddleware(config.AppConfig.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)

	public := r.Group("/api")
	RegisterDirectoryRoutes(public, hb)

	protected := r.Group("/api", middleware.JWTAuthMiddleware(hb.JWTSecret, hb.UserRepo))
	RegisterBookingRoutes(protected, hb)
	RegisterChatRoutes(protected, hb)
	RegisterProfileRoutes(protected, hb)
	RegisterAdminRoutes(protected, hb)
}

func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 || (len(allowed) == 1 && allowed[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
