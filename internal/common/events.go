package common

import "time"

// Outbound event type tags. These strings are part of the wire contract.
const (
	EventChatMessage   = "chat_message"
	EventNotifyMessage = "notify_message"
	EventStatusUpdate  = "status_update"
	EventError         = "error"
)

// previewLimit is the maximum number of runes in a notification body preview.
const previewLimit = 50

// ChatMessageEvent is broadcast to a room's subscribers when a message is sent.
type ChatMessageEvent struct {
	Type      string    `json:"type"`
	MessageID uint      `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyMessageEvent is sent to each participant's personal notification
// channel, whether or not they are connected to the room.
type NotifyMessageEvent struct {
	Type        string    `json:"type"`
	RoomID      string    `json:"room_id"`
	RoomName    string    `json:"room_name"`
	BodyPreview string    `json:"body_preview"`
	SenderName  string    `json:"sender_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusUpdateEvent is broadcast to a room's subscribers when a receipt
// advances for one recipient.
type StatusUpdateEvent struct {
	Type      string `json:"type"`
	MessageID uint   `json:"message_id"`
	Status    Status `json:"status"`
	UserID    string `json:"user_id"`
}

// ErrorEvent is sent back on the originating connection when an inbound
// event is rejected. The connection stays open.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// BodyPreview truncates a message body to the first 50 runes, appending an
// ellipsis when the body was longer.
func BodyPreview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLimit {
		return body
	}
	return string(runes[:previewLimit]) + "…"
}
