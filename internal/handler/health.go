package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	checker storage.HealthChecker
}

func NewHealthHandler(checker storage.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health reports liveness. With ?deep=1 it also pings the store.
func (h *HealthHandler) Health(c *gin.Context) {
	if deep := c.Query("deep"); deep != "1" && deep != "true" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := h.checker.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}
