package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/dbx"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Bookstore API Running"})
}

// health reports 503 when the store does not answer a ping.
func health(p dbx.Pinger, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := p.PingContext(ctx); err != nil {
			log.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
