package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arguely/internal/models"
	"arguely/internal/repository"
	"arguely/internal/service"
)

// RoundHandler handles round lifecycle requests.
type RoundHandler struct {
	roundService *service.RoundService
	userService  *service.UserService
	feed         *service.FeedManager
}

func NewRoundHandler(roundService *service.RoundService, userService *service.UserService, feed *service.FeedManager) *RoundHandler {
	return &RoundHandler{roundService: roundService, userService: userService, feed: feed}
}

type CreateRoundInput struct {
	Topic    string `json:"topic" binding:"required,min=5"`
	Position string `json:"position"`
	Mode     string `json:"mode"`
	Persona  string `json:"persona"`
}

func (h *RoundHandler) CreateRound(c *gin.Context) {
	var input CreateRoundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	round, err := h.roundService.CreateRound(userID, input.Topic, input.Position, models.RoundMode(input.Mode), input.Persona)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Topic must be at least 5 characters long"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}

	h.userService.LogActivity(userID, "DEBATE_START", c.FullPath(), "Created round "+strconv.Itoa(int(round.ID)))

	c.JSON(http.StatusCreated, round)
}

func (h *RoundHandler) GetRound(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	view, err := h.roundService.GetRoundView(uint(roundID), c.GetUint("userID"))
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RoundHandler) JoinRound(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	userID := c.GetUint("userID")
	participant, err := h.roundService.Join(uint(roundID), userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoundFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Round already has two debaters"})
		case errors.Is(err, repository.ErrRoundClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Round is not open for joining"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, participant)
}

// ListOpenRounds feeds the lobby with waiting PVP rounds.
func (h *RoundHandler) ListOpenRounds(c *gin.Context) {
	rounds, err := h.roundService.OpenRounds()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// CheckStatus lets waiting-room clients poll whether the opponent arrived.
func (h *RoundHandler) CheckStatus(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	ready, err := h.roundService.OpponentJoined(uint(roundID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready":    ready,
		"watchers": h.feed.SubscriberCount(uint(roundID)),
	})
}

// EndAndJudge closes the round and returns the verdict. Idempotent: calling
// it on a completed round returns the stored scorecard.
func (h *RoundHandler) EndAndJudge(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	verdict, err := h.roundService.EndAndJudge(c.Request.Context(), uint(roundID))
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Error"})
		return
	}

	h.userService.LogActivity(c.GetUint("userID"), "DEBATE_END", c.FullPath(), "Judged round "+strconv.Itoa(int(roundID)))

	c.JSON(http.StatusOK, verdict)
}
