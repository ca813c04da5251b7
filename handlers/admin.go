package handlers

import (
	"context"
	"net/http"

	"pijatku/models"
	"pijatku/services/analytics"
	payoutService "pijatku/services/payout"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates platform operator endpoints.
type AdminHandler struct {
	Analytics analytics.AnalyticsService
	Payouts   payoutService.PayoutService
}

func NewAdminHandler(a analytics.AnalyticsService, p payoutService.PayoutService) *AdminHandler {
	return &AdminHandler{Analytics: a, Payouts: p}
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	a, err := h.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdminHandler) ListPayouts(c *gin.Context) {
	payouts, err := h.Payouts.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}

type payoutAction func(ctx context.Context, payoutID string) (*models.PayoutRequest, error)

// PayoutAction wraps approve, reject and complete.
func (h *AdminHandler) PayoutAction(action payoutAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := action(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
