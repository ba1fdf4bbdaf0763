package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"arguely/internal/ai"
	"arguely/internal/service"
)

// ChatHandler streams the AI opponent's rebuttal for solo rounds.
type ChatHandler struct {
	roundService    *service.RoundService
	argumentService *service.ArgumentService
	opponent        *ai.Opponent
	logger          *zap.Logger
}

func NewChatHandler(
	roundService *service.RoundService,
	argumentService *service.ArgumentService,
	opponent *ai.Opponent,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		roundService:    roundService,
		argumentService: argumentService,
		opponent:        opponent,
		logger:          logger,
	}
}

// Stream writes the rebuttal as a plain-text stream and persists the
// finished text as an AI-authored argument. The client sees either real
// model output or the canned stall line, never an AI error.
func (h *ChatHandler) Stream(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	round, err := h.roundService.GetRound(uint(roundID))
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}

	// Last 6 turns keeps the prompt inside token budget.
	history, err := h.argumentService.History(round.ID, 6)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	text := h.opponent.Rebut(c.Request.Context(), ai.RebuttalRequest{
		Topic:    round.Topic,
		UserSide: round.UserSide,
		Mode:     round.Mode,
		Persona:  round.AIPersona,
		History:  history,
	}, c.Writer)

	if err := h.argumentService.StoreAIReply(round.ID, text); err != nil {
		// The stream already went out; losing the row only costs history.
		h.logger.Error("ai reply save failed", zap.Uint("round_id", round.ID), zap.Error(err))
	}
}
