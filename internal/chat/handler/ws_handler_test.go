package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

func dialWS(t *testing.T, srv string, path, userID string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv, "http", "ws", 1) + path + "?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvent blocks for the next frame and returns its type tag with the
// raw payload.
func readEvent(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var envelope struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope.Type, data
}

func sendEvent(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func createUserViaAPI(t *testing.T, srv, username string) string {
	t.Helper()
	resp := postJSON(t, srv+"/users", map[string]string{"username": username})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user dbmysql.User
	decodeBody(t, resp, &user)
	return user.UserID
}

func TestChatSession_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	alice := createUserViaAPI(t, srv.URL, "alice")
	bob := createUserViaAPI(t, srv.URL, "bob")
	carol := createUserViaAPI(t, srv.URL, "carol")

	resp := postJSON(t, srv.URL+"/rooms", map[string]interface{}{
		"name":            "devs",
		"chat_type":       "group",
		"creator_id":      alice,
		"participant_ids": []string{alice, bob, carol},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var room struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &room)

	// carol only listens for notifications, she never joins the room.
	carolNotify := dialWS(t, srv.URL, "/ws/notifications", carol)

	aliceConn := dialWS(t, srv.URL, "/ws/rooms/"+room.ID, alice)
	sendEvent(t, aliceConn, map[string]string{"type": "message", "body": "hello world"})

	eventType, data := readEvent(t, aliceConn)
	require.Equal(t, common.EventChatMessage, eventType)
	var chat common.ChatMessageEvent
	require.NoError(t, json.Unmarshal(data, &chat))
	assert.Equal(t, alice, chat.SenderID)
	assert.Equal(t, "hello world", chat.Body)
	require.NotZero(t, chat.MessageID)

	eventType, data = readEvent(t, carolNotify)
	require.Equal(t, common.EventNotifyMessage, eventType)
	var notify common.NotifyMessageEvent
	require.NoError(t, json.Unmarshal(data, &notify))
	assert.Equal(t, room.ID, notify.RoomID)
	assert.Equal(t, "devs", notify.RoomName)
	assert.Equal(t, "hello world", notify.BodyPreview)
	assert.Equal(t, "alice", notify.SenderName)

	// bob connecting catches his Sent backlog up to Delivered and the
	// room hears about it.
	bobConn := dialWS(t, srv.URL, "/ws/rooms/"+room.ID, bob)

	eventType, data = readEvent(t, aliceConn)
	require.Equal(t, common.EventStatusUpdate, eventType)
	var status common.StatusUpdateEvent
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, chat.MessageID, status.MessageID)
	assert.Equal(t, common.StatusDelivered, status.Status)
	assert.Equal(t, bob, status.UserID)

	// bob reads the message; only his own receipt moves, and the room is
	// told.
	sendEvent(t, bobConn, map[string]interface{}{
		"type":       "status_update",
		"message_id": chat.MessageID,
		"status":     "read",
	})

	for {
		eventType, data = readEvent(t, aliceConn)
		require.Equal(t, common.EventStatusUpdate, eventType)
		require.NoError(t, json.Unmarshal(data, &status))
		if status.Status == common.StatusRead {
			break
		}
	}
	assert.Equal(t, chat.MessageID, status.MessageID)
	assert.Equal(t, bob, status.UserID)

	// History reflects the per-recipient receipt state.
	histResp, err := http.Get(srv.URL + "/rooms/" + room.ID + "/messages")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var history []struct {
		ID       uint                     `json:"id"`
		Body     string                   `json:"body"`
		Receipts map[string]common.Status `json:"receipts"`
	}
	decodeBody(t, histResp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, chat.MessageID, history[0].ID)
	assert.Equal(t, common.StatusRead, history[0].Receipts[bob])
	assert.Equal(t, common.StatusSent, history[0].Receipts[carol])
	assert.NotContains(t, history[0].Receipts, alice)
}

func TestChatSession_RejectsMalformedFrames(t *testing.T) {
	srv := newTestServer(t)

	alice := createUserViaAPI(t, srv.URL, "alice")
	bob := createUserViaAPI(t, srv.URL, "bob")

	resp := postJSON(t, srv.URL+"/rooms", map[string]interface{}{
		"chat_type":       "private",
		"creator_id":      alice,
		"participant_ids": []string{alice, bob},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var room struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &room)

	conn := dialWS(t, srv.URL, "/ws/rooms/"+room.ID, alice)

	sendEvent(t, conn, map[string]string{"type": "presence_ping"})
	eventType, data := readEvent(t, conn)
	require.Equal(t, common.EventError, eventType)
	var errEvent common.ErrorEvent
	require.NoError(t, json.Unmarshal(data, &errEvent))
	assert.NotEmpty(t, errEvent.Message)

	// The session survives a rejected frame.
	sendEvent(t, conn, map[string]string{"type": "message", "body": "still here"})
	eventType, _ = readEvent(t, conn)
	assert.Equal(t, common.EventChatMessage, eventType)
}
