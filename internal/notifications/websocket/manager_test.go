package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/notifications"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

func dial(t *testing.T, m *Manager, sessionID uuid.UUID, onPosition PositionHandler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := m.HandleConnection(w, r, sessionID, onPosition)
		assert.NoError(t, err)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return m.ConnectionCount(sessionID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestNotifyReachesSessionClient(t *testing.T) {
	m := NewManager(zap.NewNop())
	sessionID := uuid.New()
	conn := dial(t, m, sessionID, nil)

	m.Notify(sessionID, notifications.New(notifications.LevelError, "Please select a farmer"))

	var msg notifications.WebSocketMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, notifications.MessageNotification, msg.Type)
	assert.Equal(t, "Please select a farmer", msg.Data["message"])
	assert.Equal(t, "error", msg.Data["level"])
}

func TestPositionFramesReachHandler(t *testing.T) {
	m := NewManager(zap.NewNop())
	sessionID := uuid.New()
	got := make(chan geospatial.Point, 1)
	conn := dial(t, m, sessionID, func(id uuid.UUID, p geospatial.Point) {
		assert.Equal(t, sessionID, id)
		got <- p
	})

	require.NoError(t, conn.WriteJSON(notifications.WebSocketMessage{
		Type: notifications.MessagePosition,
		Data: map[string]interface{}{"latitude": 23.81, "longitude": 90.41},
	}))

	select {
	case p := <-got:
		assert.Equal(t, geospatial.Point{Latitude: 23.81, Longitude: 90.41}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("position was not delivered")
	}
}

func TestCloseSessionDisconnects(t *testing.T) {
	m := NewManager(zap.NewNop())
	sessionID := uuid.New()
	conn := dial(t, m, sessionID, nil)

	m.CloseSession(sessionID)
	assert.Equal(t, 0, m.ConnectionCount(sessionID))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg notifications.WebSocketMessage
	assert.Error(t, conn.ReadJSON(&msg))

	// publishing after close is a no-op
	m.Notify(sessionID, notifications.New(notifications.LevelInfo, "late"))
}

func TestPositionFromData(t *testing.T) {
	_, ok := positionFromData(map[string]interface{}{"latitude": "23", "longitude": 90.0})
	assert.False(t, ok)

	_, ok = positionFromData(map[string]interface{}{"latitude": 95.0, "longitude": 90.0})
	assert.False(t, ok)

	p, ok := positionFromData(map[string]interface{}{"latitude": -1.5, "longitude": 2.5})
	assert.True(t, ok)
	assert.Equal(t, geospatial.Point{Latitude: -1.5, Longitude: 2.5}, p)
}
