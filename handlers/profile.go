package handlers

import (
	"net/http"

	"pijatku/models"
	profileService "pijatku/services/profile"

	"github.com/gin-gonic/gin"
)

// maxPhotoSize bounds therapist photo uploads.
const maxPhotoSize = 8 << 20

type ProfileHandler struct {
	Service profileService.ProfileService
}

func NewProfileHandler(svc profileService.ProfileService) *ProfileHandler {
	return &ProfileHandler{Service: svc}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	acc, err := h.Service.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": acc.Role(), "profile": acc})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req profileService.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	acc, err := h.Service.Update(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": acc.Role(), "profile": acc})
}

func (h *ProfileHandler) SetAvailability(c *gin.Context) {
	var input struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.Service.SetAvailability(c.Request.Context(), currentUser(c), *input.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ProfileHandler) SwitchRole(c *gin.Context) {
	var input struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	acc, err := h.Service.SwitchRole(c.Request.Context(), currentUser(c), input.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": acc.Role(), "profile": acc})
}

// UploadPhoto accepts a multipart "photo" field.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)
	fh, err := c.FormFile("photo")
	if err != nil {
		bindError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		bindError(c, err)
		return
	}
	defer f.Close()

	t, err := h.Service.AddPhoto(c.Request.Context(), currentUser(c), f, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}
