package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/notifications"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	readLimit  = 1024
	sendBuffer = 64
)

// PositionHandler receives device fixes sent by a session's client.
type PositionHandler func(sessionID uuid.UUID, p geospatial.Point)

// Manager routes websocket frames to and from plot sessions
type Manager struct {
	sessions map[uuid.UUID]map[string]*Connection
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID           string
	SessionID    uuid.UUID
	Conn         *websocket.Conn
	Send         chan notifications.WebSocketMessage
	LastActivity time.Time
	closed       bool
	mu           sync.Mutex
}

// NewManager creates a new WebSocket manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]map[string]*Connection),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and attaches it to a session
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID, onPosition PositionHandler) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Conn:         conn,
		Send:         make(chan notifications.WebSocketMessage, sendBuffer),
		LastActivity: time.Now(),
	}

	m.mu.Lock()
	if m.sessions[sessionID] == nil {
		m.sessions[sessionID] = make(map[string]*Connection)
	}
	m.sessions[sessionID][connection.ID] = connection
	m.mu.Unlock()

	m.logger.Info("Websocket attached",
		zap.String("session_id", sessionID.String()),
		zap.String("connection_id", connection.ID))

	go m.readPump(connection, onPosition)
	go m.writePump(connection)

	return connection, nil
}

// Notify pushes a toast to every client of the session
func (m *Manager) Notify(sessionID uuid.UUID, n notifications.Notification) {
	m.logger.Debug("Notification",
		zap.String("session_id", sessionID.String()),
		zap.String("level", string(n.Level)),
		zap.String("message", n.Message))

	m.Publish(sessionID, notifications.MessageNotification, map[string]interface{}{
		"id":      n.ID.String(),
		"level":   n.Level,
		"message": n.Message,
	})
}

// PublishLocation pushes the live device location to the session's clients
func (m *Manager) PublishLocation(sessionID uuid.UUID, p geospatial.Point) {
	m.Publish(sessionID, notifications.MessageLocation, map[string]interface{}{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	})
}

// Publish sends a frame to every connection of a session. Slow clients drop frames.
func (m *Manager) Publish(sessionID uuid.UUID, msgType notifications.MessageType, data map[string]interface{}) {
	msg := notifications.WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conn := range m.sessions[sessionID] {
		conn.enqueue(msg)
	}
}

// CloseSession disconnects every client of a session
func (m *Manager) CloseSession(sessionID uuid.UUID) {
	m.mu.Lock()
	conns := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
}

// ConnectionCount returns the number of clients attached to a session
func (m *Manager) ConnectionCount(sessionID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[sessionID])
}

func (m *Manager) unregister(conn *Connection) {
	m.mu.Lock()
	if conns, ok := m.sessions[conn.SessionID]; ok {
		delete(conns, conn.ID)
		if len(conns) == 0 {
			delete(m.sessions, conn.SessionID)
		}
	}
	m.mu.Unlock()
	conn.close()
}

// readPump pumps frames from the client into the session
func (m *Manager) readPump(conn *Connection, onPosition PositionHandler) {
	defer func() {
		m.unregister(conn)
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(readLimit)
	conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg notifications.WebSocketMessage
		if err := conn.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("Websocket read failed", zap.Error(err))
			}
			return
		}
		conn.Conn.SetReadDeadline(time.Now().Add(pongWait))

		conn.mu.Lock()
		conn.LastActivity = time.Now()
		conn.mu.Unlock()

		m.handleMessage(conn, &msg, onPosition)
	}
}

// writePump pumps queued frames to the client
func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) handleMessage(conn *Connection, msg *notifications.WebSocketMessage, onPosition PositionHandler) {
	switch msg.Type {
	case notifications.MessagePosition:
		p, ok := positionFromData(msg.Data)
		if !ok {
			m.logger.Debug("Ignoring malformed position", zap.String("connection_id", conn.ID))
			return
		}
		if onPosition != nil {
			onPosition(conn.SessionID, p)
		}
	default:
		m.logger.Debug("Unknown message type", zap.String("type", string(msg.Type)))
	}
}

func positionFromData(data map[string]interface{}) (geospatial.Point, bool) {
	lat, ok := data["latitude"].(float64)
	if !ok {
		return geospatial.Point{}, false
	}
	lng, ok := data["longitude"].(float64)
	if !ok {
		return geospatial.Point{}, false
	}
	p := geospatial.Point{Latitude: lat, Longitude: lng}
	if p.Validate() != nil {
		return geospatial.Point{}, false
	}
	return p, true
}

func (c *Connection) enqueue(msg notifications.WebSocketMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
