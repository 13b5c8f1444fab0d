package handlers

import (
	"context"
	"errors"
	"net/http"

	"repairright/middleware"
	"repairright/services/domainerr"
	"repairright/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForCode maps domain error codes onto HTTP statuses.
var statusForCode = map[string]int{
	domainerr.CodeSelfBooking:       http.StatusBadRequest,
	domainerr.CodeAlreadyBooked:     http.StatusBadRequest,
	domainerr.CodeInvalidStatus:     http.StatusBadRequest,
	domainerr.CodeValidation:        http.StatusBadRequest,
	domainerr.CodeForbidden:         http.StatusForbidden,
	domainerr.CodeNotFound:          http.StatusNotFound,
	domainerr.CodeInvalidTransition: http.StatusConflict,
}

// respondError writes err to the client. Domain errors carry their own message;
// anything else is logged and reported as fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var de *domainerr.Error
	if errors.As(err, &de) {
		status, ok := statusForCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, de.Code, de.Message)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		utils.JSONError(c, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
		return
	}
	middleware.RequestLogger(c).Error(fallback,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	utils.JSONError(c, http.StatusInternalServerError, "INTERNAL", fallback)
}

func badRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, domainerr.CodeValidation, message)
}
