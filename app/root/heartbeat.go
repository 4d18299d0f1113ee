// Package root holds the health endpoints mounted directly under /api
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Validate answers 200 when the JWT middleware let the request through
func Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
