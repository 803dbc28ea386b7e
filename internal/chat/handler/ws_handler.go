package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"chatcore/internal/chat/service"
	"chatcore/internal/common"
	"chatcore/internal/fanout"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// WSHandler upgrades chat and notification connections and runs one
// session per connection.
type WSHandler struct {
	engine      service.DeliveryService
	broadcaster fanout.Broadcaster
	upgrader    websocket.Upgrader
}

func NewWSHandler(engine service.DeliveryService, broadcaster fanout.Broadcaster, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WSHandler{
		engine:      engine,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// HandleChat handles GET /ws/rooms/{room_id}. The session subscribes to
// the room's event topic, registers presence, catches up the user's Sent
// backlog and then relays client events to the delivery engine.
func (h *WSHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]
	userID := requestUserID(r)
	if userID == "" {
		http.Error(w, "missing user id", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	sess := &session{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		roomID: roomID,
	}

	ctx := context.Background()
	unsubscribe, err := h.broadcaster.SubscribeRoom(ctx, roomID, sess.enqueue)
	if err != nil {
		log.Printf("subscribe room %s: %v", roomID, err)
		conn.Close()
		return
	}

	caughtUp, err := h.engine.OnConnect(ctx, userID, roomID)
	if err != nil {
		log.Printf("connect catch-up for %s in %s: %v", userID, roomID, err)
	}
	for _, messageID := range caughtUp {
		h.publishStatus(ctx, roomID, messageID, common.StatusDelivered, userID)
	}

	go sess.writePump()
	h.readPump(ctx, sess)

	h.engine.OnDisconnect(userID, roomID)
	unsubscribe()
	close(sess.send)
}

func (h *WSHandler) readPump(ctx context.Context, sess *session) {
	sess.conn.SetReadLimit(maxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read for %s in %s: %v", sess.userID, sess.roomID, err)
			}
			return
		}

		event, err := DecodeClientEvent(data)
		if err != nil {
			sess.sendError(err.Error())
			continue
		}

		switch ev := event.(type) {
		case ClientMessage:
			h.handleSend(ctx, sess, ev)
		case ClientStatusUpdate:
			h.handleStatusUpdate(ctx, sess, ev)
		}
	}
}

func (h *WSHandler) handleSend(ctx context.Context, sess *session, ev ClientMessage) {
	res, err := h.engine.Send(ctx, sess.roomID, sess.userID, ev.Body)
	if err != nil {
		// Rejections surface on this connection only; the session stays up.
		if errors.Is(err, common.ErrRoomNotFound) || errors.Is(err, common.ErrNotParticipant) {
			sess.sendError(err.Error())
			return
		}
		log.Printf("send from %s in %s: %v", sess.userID, sess.roomID, err)
		sess.sendError("message could not be delivered")
		return
	}

	chat := common.ChatMessageEvent{
		Type:      common.EventChatMessage,
		MessageID: res.Message.ID,
		SenderID:  res.Message.SenderID,
		Body:      res.Message.Body,
		Timestamp: res.Message.SentAt,
	}
	if err := h.broadcaster.PublishRoom(ctx, sess.roomID, chat); err != nil {
		log.Printf("broadcast chat_message %d: %v", res.Message.ID, err)
	}

	senderName := sess.userID
	for _, p := range res.Room.Participants {
		if p.UserID == sess.userID {
			senderName = p.Username
			break
		}
	}
	notify := common.NotifyMessageEvent{
		Type:        common.EventNotifyMessage,
		RoomID:      sess.roomID,
		RoomName:    res.RoomName,
		BodyPreview: common.BodyPreview(res.Message.Body),
		SenderName:  senderName,
		Timestamp:   res.Message.SentAt,
	}
	for _, p := range res.Room.Participants {
		if p.UserID == sess.userID {
			continue
		}
		if err := h.broadcaster.PublishUser(ctx, p.UserID, notify); err != nil {
			log.Printf("notify %s about message %d: %v", p.UserID, res.Message.ID, err)
		}
	}
}

func (h *WSHandler) handleStatusUpdate(ctx context.Context, sess *session, ev ClientStatusUpdate) {
	changed, err := h.engine.UpdateStatus(ctx, ev.MessageID, sess.userID, ev.Status)
	if err != nil {
		// Absorbed at the protocol boundary, but logged: a NotRecipient
		// here may be a buggy or malicious client.
		if errors.Is(err, common.ErrNotRecipient) || errors.Is(err, common.ErrMessageNotFound) {
			log.Printf("rejected status_update from %s on message %d: %v", sess.userID, ev.MessageID, err)
			return
		}
		log.Printf("status_update from %s on message %d: %v", sess.userID, ev.MessageID, err)
		return
	}
	if !changed {
		return
	}
	h.publishStatus(ctx, sess.roomID, ev.MessageID, ev.Status, sess.userID)
}

func (h *WSHandler) publishStatus(ctx context.Context, roomID string, messageID uint, status common.Status, userID string) {
	event := common.StatusUpdateEvent{
		Type:      common.EventStatusUpdate,
		MessageID: messageID,
		Status:    status,
		UserID:    userID,
	}
	if err := h.broadcaster.PublishRoom(ctx, roomID, event); err != nil {
		log.Printf("broadcast status_update %d: %v", messageID, err)
	}
}

// session owns one websocket connection. All writes go through the send
// channel so the write pump is the only goroutine touching the socket.
type session struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
	roomID string
}

func (s *session) enqueue(payload []byte) {
	select {
	case s.send <- payload:
	default:
		log.Printf("session %s/%s send buffer full, dropping event", s.userID, s.roomID)
	}
}

func (s *session) sendError(message string) {
	payload, err := json.Marshal(common.ErrorEvent{Type: common.EventError, Message: message})
	if err != nil {
		return
	}
	s.enqueue(payload)
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func requestUserID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return r.URL.Query().Get("user_id")
}
