package handlers

import (
	"context"
	"net/http"
	"strconv"

	"pijatku/models"
	"pijatku/services/directory"

	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	Service   directory.DirectoryService
	Sequencer *directory.Sequencer
}

func NewDirectoryHandler(svc directory.DirectoryService, seq *directory.Sequencer) *DirectoryHandler {
	return &DirectoryHandler{Service: svc, Sequencer: seq}
}

// SearchTherapists filters the directory. Clients typing ahead pass a session
// id and an increasing seq so that only the newest request answers. Session
// ids are scoped to the caller, so one client cannot stale out another's.
func (h *DirectoryHandler) SearchTherapists(c *gin.Context) {
	q := directory.ParseQuery(c.Query("q"), c.Query("city"), c.Query("gender"), c.Query("service"))
	search := func(ctx context.Context) ([]models.Therapist, error) {
		return h.Service.Search(ctx, q)
	}

	var seq uint64
	var results []models.Therapist
	var err error
	if session := c.Query("session"); session != "" && h.Sequencer != nil {
		seq, err = strconv.ParseUint(c.DefaultQuery("seq", "0"), 10, 64)
		if err != nil {
			respondError(c, models.NewValidationError("seq", "must be a non-negative integer"))
			return
		}
		results, err = h.Sequencer.Run(c.Request.Context(), searchScope(c)+"|"+session, seq, search)
	} else {
		results, err = search(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"therapists": results, "count": len(results), "query": q, "seq": seq})
}

// searchScope names the caller owning a search session: the signed-in user
// when there is one, otherwise the client address.
func searchScope(c *gin.Context) string {
	if id := currentUser(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

func (h *DirectoryHandler) GetTherapist(c *gin.Context) {
	t, err := h.Service.GetTherapist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *DirectoryHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Options())
}
