package handlers

import (
	"net/http"

	"pijatku/models"
	paymentService "pijatku/services/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	Service paymentService.PaymentService
}

func NewPaymentHandler(svc paymentService.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var input struct {
		Method models.PaymentMethod `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.Create(c.Request.Context(), c.Param("id"), currentUser(c), input.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	var input struct {
		TransactionID string `json:"transactionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.Capture(c.Request.Context(), c.Param("id"), currentUser(c), input.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) FailPayment(c *gin.Context) {
	var input struct {
		TransactionID string `json:"transactionId"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
	}
	p, err := h.Service.Fail(c.Request.Context(), c.Param("id"), currentUser(c), input.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
