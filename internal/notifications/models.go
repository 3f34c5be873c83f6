package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a user-facing notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a dismissible toast shown to the user of one plot session
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a notification stamped with the current time
func New(level Level, message string) Notification {
	return Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// MessageType tags websocket frames
type MessageType string

const (
	// outbound
	MessageNotification MessageType = "notification"
	MessageLocation     MessageType = "location"
	MessageStatus       MessageType = "status"

	// inbound
	MessagePosition MessageType = "position"
)

// WebSocketMessage is the envelope for every frame in both directions
type WebSocketMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
