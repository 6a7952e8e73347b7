package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mediascope/internal/usecases"
)

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *usecases.ValidationError
	var oerr *usecases.OperationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, usecases.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &oerr):
		c.JSON(http.StatusBadGateway, gin.H{"error": oerr.Message})
	case errors.Is(err, context.Canceled):
		// client went away
		c.Abort()
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
