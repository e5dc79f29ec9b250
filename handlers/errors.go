package handlers

import (
	"net/http"

	"frontdesk/services/appointment"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error onto an HTTP status. Store failures never expose the
// underlying cause.
func respondError(c *gin.Context, err error, action string) {
	code := appointment.ErrorCode(err)
	switch code {
	case appointment.CodeValidation:
		utils.JSONError(c, http.StatusBadRequest, code, appointment.ErrorMessage(err), "")
	case appointment.CodeNotFound:
		utils.JSONError(c, http.StatusNotFound, code, appointment.ErrorMessage(err), "")
	case appointment.CodeConflict:
		utils.JSONError(c, http.StatusConflict, code, appointment.ErrorMessage(err), "")
	default:
		getLogger(c).Error("Failed to "+action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Code:    appointment.CodeStoreFailure,
			Message: "Failed to " + action,
			Details: "The appointment store is unavailable. Please try again later.",
		})
	}
}

func invalidPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, appointment.CodeValidation, "Invalid request payload", err.Error())
}
