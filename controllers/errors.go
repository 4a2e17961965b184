package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/services"
	"github.com/sahrati/reservation-backend/utils"
)

// ErrNoPermission is returned when a role check fails.
var ErrNoPermission = errors.New("you do not have permission")

// respondServiceError maps the engine's sentinel errors onto HTTP status
// codes. Everything in the taxonomy is recoverable: the operator UI is
// expected to re-prompt or re-query.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTableConflict), errors.Is(err, services.ErrNoTableAvailable):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
