// Package respond holds the JSON error replies shared by all handlers
package respond

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/middleware"
	"bitwise74/notes-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error replies with {"error": msg, "requestID": id}
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error":     msg,
		"requestID": c.GetString(middleware.RequestIDKey),
	})
}

// Internal logs err and replies with a generic 500
func Internal(c *gin.Context, logMsg string, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})

	zap.L().Error(logMsg, zap.Error(err), zap.String("requestID", requestID))
}

// StoreError maps store and validation errors to their status codes.
// Anything unknown is an internal error.
func StoreError(c *gin.Context, logMsg string, err error) {
	var ve validators.Error

	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrInvalidID):
		Error(c, http.StatusBadRequest, "Id is not valid")
	case errors.Is(err, store.ErrNotFound):
		Error(c, http.StatusNotFound, "Note does not exist")
	case errors.Is(err, store.ErrPermissionDenied):
		Error(c, http.StatusForbidden, "You don't own this note")
	default:
		Internal(c, logMsg, err)
	}
}
