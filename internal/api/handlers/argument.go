package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arguely/internal/service"
)

// ArgumentHandler handles turn submission and on-demand analysis.
type ArgumentHandler struct {
	argumentService *service.ArgumentService
}

func NewArgumentHandler(argumentService *service.ArgumentService) *ArgumentHandler {
	return &ArgumentHandler{argumentService: argumentService}
}

type SubmitArgumentInput struct {
	Argument      string `json:"argument" binding:"required"`
	ParticipantID uint   `json:"participant_id" binding:"required"`
}

// SubmitArgument runs the submission pipeline. The response reports only
// the user's own turn; moderation and analysis land separately.
func (h *ArgumentHandler) SubmitArgument(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	var input SubmitArgumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	argument, err := h.argumentService.Submit(c.Request.Context(), uint(roundID), input.ParticipantID, c.GetUint("userID"), input.Argument)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a debater in this round"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": argument.ID, "created_at": argument.CreatedAt})
}

// TriggerAnalysis re-runs the analyst for one argument and returns the
// (possibly fallback) analysis.
func (h *ArgumentHandler) TriggerAnalysis(c *gin.Context) {
	argumentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid argument ID"})
		return
	}

	analysis, err := h.argumentService.Analyze(c.Request.Context(), uint(argumentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Argument not found"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
