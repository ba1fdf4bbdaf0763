package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"arguely/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades clients onto a round's live argument feed.
type WebSocketHandler struct {
	feed         *service.FeedManager
	roundService *service.RoundService
}

func NewWebSocketHandler(feed *service.FeedManager, roundService *service.RoundService) *WebSocketHandler {
	return &WebSocketHandler{feed: feed, roundService: roundService}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	if _, err := h.roundService.GetRound(uint(roundID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.feed.HandleConnection(conn, uint(roundID))
}
