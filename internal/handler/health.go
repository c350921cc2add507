package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// Health godoc
// @Summary      Health check
// @Description  Reports service liveness and uptime
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "coinsight",
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
	})
}
