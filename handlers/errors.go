package handlers

import (
	"context"
	"errors"
	"net/http"

	"pijatku/models"
	"pijatku/services/directory"
	"pijatku/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusClientClosedRequest is logged when the caller went away mid-request.
const statusClientClosedRequest = 499

// respondError maps a service error onto an HTTP status.
func respondError(c *gin.Context, err error) {
	var (
		ve *models.ValidationError
		nf *models.NotFoundError
		it *models.InvalidTransitionError
	)
	switch {
	case errors.As(err, &ve):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", ve.Error())
	case errors.As(err, &nf):
		utils.JSONError(c, http.StatusNotFound, "Not found", nf.Error())
	case errors.As(err, &it):
		utils.JSONError(c, http.StatusConflict, "Invalid status change", it.Error())
	case errors.Is(err, directory.ErrStaleSearch):
		utils.JSONError(c, http.StatusConflict, "Stale search", err.Error())
	case errors.Is(err, models.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		zap.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "Internal Server Error"})
	}
}

func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid payload", err.Error())
}

func currentUser(c *gin.Context) string {
	return c.GetString(utils.ContextUserID)
}
