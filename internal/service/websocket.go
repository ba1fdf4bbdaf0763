package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"arguely/internal/models"
)

// FeedEvent is one live-feed message pushed to round subscribers when a new
// argument lands, sparing clients the fixed-interval polling fallback.
type FeedEvent struct {
	Type      string                 `json:"type"`
	RoundID   uint                   `json:"round_id"`
	Role      models.ParticipantRole `json:"role,omitempty"`
	Content   string                 `json:"content,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// feedClient is one subscribed WebSocket connection.
type feedClient struct {
	conn    *websocket.Conn
	roundID uint
	send    chan *FeedEvent
}

// FeedManager fans argument events out to every connection subscribed to a
// round.
type FeedManager struct {
	clients    map[uint]map[*feedClient]bool // roundID -> client set
	clientsMux sync.RWMutex
	logger     *zap.Logger
}

func NewFeedManager(logger *zap.Logger) *FeedManager {
	return &FeedManager{
		clients: make(map[uint]map[*feedClient]bool),
		logger:  logger,
	}
}

// HandleConnection serves one subscriber until the peer hangs up.
func (m *FeedManager) HandleConnection(conn *websocket.Conn, roundID uint) {
	client := &feedClient{
		conn:    conn,
		roundID: roundID,
		send:    make(chan *FeedEvent, 64),
	}

	m.addClient(client)

	defer func() {
		m.removeClient(client)
		conn.Close()
		close(client.send)
	}()

	go m.writePump(client)
	m.readPump(client)
}

// readPump drains the connection. Subscribers don't send meaningful data;
// reading keeps ping/pong and close handling alive.
func (m *FeedManager) readPump(client *feedClient) {
	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("feed connection closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (m *FeedManager) writePump(client *feedClient) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				m.logger.Warn("feed event encoding failed", zap.Error(err))
				continue
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast pushes an event to every subscriber of the round. Slow clients
// whose queue is full get their connection closed; their own read loop then
// unregisters them. Sends happen under the lock so a client still in the map
// never has a closed send channel.
func (m *FeedManager) Broadcast(roundID uint, event *FeedEvent) {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	for client := range m.clients[roundID] {
		select {
		case client.send <- event:
		default:
			client.conn.Close()
		}
	}
}

// SubscriberCount reports how many connections watch the round.
func (m *FeedManager) SubscriberCount(roundID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()
	return len(m.clients[roundID])
}

func (m *FeedManager) addClient(client *feedClient) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.roundID] == nil {
		m.clients[client.roundID] = make(map[*feedClient]bool)
	}
	m.clients[client.roundID][client] = true
}

func (m *FeedManager) removeClient(client *feedClient) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.roundID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(m.clients, client.roundID)
		}
	}
}
