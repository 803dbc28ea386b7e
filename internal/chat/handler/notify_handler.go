package handler

import (
	"context"
	"log"
	"net/http"
	"time"
)

// HandleNotifications handles GET /ws/notifications. The session only
// subscribes to the user's personal channel; notify_message events arrive
// here for every room the user participates in, connected or not.
func (h *WSHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
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
	}

	unsubscribe, err := h.broadcaster.SubscribeUser(context.Background(), userID, sess.enqueue)
	if err != nil {
		log.Printf("subscribe notifications for %s: %v", userID, err)
		conn.Close()
		return
	}

	go sess.writePump()

	// Inbound frames are only keep-alives; the loop exists to notice the
	// close.
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	unsubscribe()
	close(sess.send)
}
