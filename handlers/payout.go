package handlers

import (
	"net/http"

	"pijatku/models"
	payoutService "pijatku/services/payout"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	Service payoutService.PayoutService
}

func NewPayoutHandler(svc payoutService.PayoutService) *PayoutHandler {
	return &PayoutHandler{Service: svc}
}

func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	var input struct {
		Amount      models.Rupiah `json:"amount" binding:"required"`
		BankAccount string        `json:"bankAccount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.Request(c.Request.Context(), currentUser(c), input.Amount, input.BankAccount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PayoutHandler) ListMyPayouts(c *gin.Context) {
	payouts, err := h.Service.ListForTherapist(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}
