package handlers

import (
	"net/http"

	"pijatku/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Store string
}

func NewHealthHandler(store string) *HealthHandler {
	return &HealthHandler{Store: store}
}

// Health reports liveness plus the last backing-service check.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "message": "Halo, ini Pijatku", "store": h.Store, "services": status})
}
