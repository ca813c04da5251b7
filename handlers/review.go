package handlers

import (
	"net/http"

	reviewService "pijatku/services/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service reviewService.ReviewService
}

func NewReviewHandler(svc reviewService.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var input struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Service.Create(c.Request.Context(), currentUser(c), c.Param("id"), input.Rating, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *ReviewHandler) ListTherapistReviews(c *gin.Context) {
	reviews, err := h.Service.ListForTherapist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
