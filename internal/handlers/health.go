// Package handlers wires the catalog and payment HTTP surfaces onto gin.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the key-value store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns the root health handler for a service. It answers 200 when
// the store responds to a ping and 503 otherwise.
func Health(service, message string, store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  false,
				"message": "service unhealthy - store connection failed",
				"service": service,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": message,
			"service": service,
		})
	}
}
