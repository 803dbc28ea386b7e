package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chatcore/internal/chat/service"
	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

// HTTPHandler serves the JSON surface around the delivery engine: user
// and room creation, room listing, history scroll-back.
type HTTPHandler struct {
	roomService service.RoomService
	engine      service.DeliveryService
}

func NewHTTPHandler(roomService service.RoomService, engine service.DeliveryService) *HTTPHandler {
	return &HTTPHandler{roomService: roomService, engine: engine}
}

type createUserRequest struct {
	Username string `json:"username"`
}

type createRoomRequest struct {
	Name           string   `json:"name"`
	ChatType       string   `json:"chat_type"`
	CreatorID      string   `json:"creator_id"`
	ParticipantIDs []string `json:"participant_ids"`
}

type roomResponse struct {
	*dbmysql.Room
	DisplayName string `json:"display_name"`
}

// CreateUser handles POST /users
func (h *HTTPHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.roomService.CreateUser(r.Context(), req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// CreateRoom handles POST /rooms
func (h *HTTPHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), req.Name, common.ChatType(req.ChatType), req.CreatorID, req.ParticipantIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse{Room: room, DisplayName: h.roomService.DisplayName(room)})
}

// ListRooms handles GET /rooms?user_id=
func (h *HTTPHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	rooms, err := h.roomService.RoomsForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomResponse{Room: room, DisplayName: h.roomService.DisplayName(room)})
	}
	writeJSON(w, http.StatusOK, out)
}

type messageResponse struct {
	*dbmysql.Message
	// Receipts maps each recipient to their current status so clients can
	// render per-recipient ticks without a second round trip.
	Receipts map[string]common.Status `json:"receipts"`
}

// History handles GET /rooms/{room_id}/messages?limit=&before=
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	before, _ := strconv.ParseUint(r.URL.Query().Get("before"), 10, 64)

	messages, err := h.engine.History(r.Context(), roomID, limit, uint(before))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		receipts, err := h.engine.ReceiptStatuses(r.Context(), msg.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out = append(out, messageResponse{Message: msg, Receipts: receipts})
	}
	writeJSON(w, http.StatusOK, out)
}

// NewRouter assembles the HTTP and websocket routes.
func NewRouter(api *HTTPHandler, ws *WSHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/users", api.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/rooms", api.CreateRoom).Methods(http.MethodPost)
	r.HandleFunc("/rooms", api.ListRooms).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{room_id}/messages", api.History).Methods(http.MethodGet)
	r.HandleFunc("/ws/rooms/{room_id}", ws.HandleChat)
	r.HandleFunc("/ws/notifications", ws.HandleNotifications)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrRoomNotFound), errors.Is(err, common.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrNotParticipant), errors.Is(err, common.ErrNotRecipient):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrStorageFailure):
		log.Printf("storage failure: %v", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
