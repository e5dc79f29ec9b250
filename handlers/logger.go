package handlers

import (
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	return utils.ContextLogger(c)
}
