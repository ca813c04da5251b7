package handlers

import (
	"net/http"

	"pijatku/models"
	bookingService "pijatku/services/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Service bookingService.BookingService
}

func NewBookingHandler(svc bookingService.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ListBookings returns the caller's booking cards for one tab.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	tab := bookingService.Tab(c.DefaultQuery("tab", string(bookingService.TabUpcoming)))
	cards, err := h.Service.ListForUser(c.Request.Context(), currentUser(c), tab)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": tab, "bookings": cards})
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req bookingService.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.ClientID = currentUser(c)
	b, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Transition returns a handler moving a booking to next.
func (h *BookingHandler) Transition(next models.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := h.Service.Transition(c.Request.Context(), c.Param("id"), currentUser(c), next)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
