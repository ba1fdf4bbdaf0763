package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arguely/internal/service"
)

// StatsHandler serves the public landing-page counters.
type StatsHandler struct {
	roundService *service.RoundService
}

func NewStatsHandler(roundService *service.RoundService) *StatsHandler {
	return &StatsHandler{roundService: roundService}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	online, active := h.roundService.Stats()
	c.JSON(http.StatusOK, gin.H{
		"online": online,
		"active": active,
	})
}
