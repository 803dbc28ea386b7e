package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatcore/internal/chat/repository"
	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

// Presence is the live-connection view the delivery engine consults to
// pre-advance receipts at send time.
type Presence interface {
	Connect(userID, roomID string)
	Disconnect(userID, roomID string)
	IsConnected(userID, roomID string) bool
	ConnectedRecipients(roomID string, candidates []string) []string
}

// DeliveryResult is what the caller broadcasts after a successful send.
type DeliveryResult struct {
	Message  *dbmysql.Message
	Room     *dbmysql.Room
	RoomName string
	// Statuses maps each recipient to their initial receipt status.
	Statuses map[string]common.Status
}

// DeliveryService is the message delivery and receipt-tracking engine: it
// persists outbound messages with their receipt set, computes status
// transitions against live connection state, and reports what the
// transport layer must broadcast.
type DeliveryService interface {
	Send(ctx context.Context, roomID, senderID, body string) (*DeliveryResult, error)
	UpdateStatus(ctx context.Context, messageID uint, userID string, status common.Status) (bool, error)
	AggregateStatus(ctx context.Context, messageID uint) (common.Status, error)
	// OnConnect registers presence and advances the user's Sent backlog
	// in the room to Delivered, returning the affected message ids.
	OnConnect(ctx context.Context, userID, roomID string) ([]uint, error)
	OnDisconnect(userID, roomID string)
	History(ctx context.Context, roomID string, limit int, beforeID uint) ([]*dbmysql.Message, error)
	// ReceiptStatuses reports each recipient's current status for one
	// message, for history views that render per-recipient ticks.
	ReceiptStatuses(ctx context.Context, messageID uint) (map[string]common.Status, error)
}

type deliveryService struct {
	rooms    repository.RoomRepository
	messages repository.MessageRepository
	receipts repository.ReceiptRepository
	presence Presence
	// catchupWindow bounds the OnConnect backlog scan; zero disables the
	// bound.
	catchupWindow time.Duration
}

// Constructor used in DI/wire
func NewDeliveryService(
	rooms repository.RoomRepository,
	messages repository.MessageRepository,
	receipts repository.ReceiptRepository,
	presence Presence,
	catchupWindow time.Duration,
) DeliveryService {
	return &deliveryService{
		rooms:         rooms,
		messages:      messages,
		receipts:      receipts,
		presence:      presence,
		catchupWindow: catchupWindow,
	}
}

// Send validates, persists and receipt-initializes one outbound message.
// Recipients already connected to the room start at Delivered; everyone
// else starts at Sent. Nothing is persisted when validation fails.
func (s *deliveryService) Send(ctx context.Context, roomID, senderID, body string) (*DeliveryResult, error) {
	if body == "" {
		return nil, errors.New("message body cannot be empty")
	}
	if senderID == "" {
		return nil, errors.New("sender ID cannot be empty")
	}

	room, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(senderID) {
		return nil, fmt.Errorf("sender %s in room %s: %w", senderID, roomID, common.ErrNotParticipant)
	}

	recipients := room.RecipientIDs(senderID)
	connected := make(map[string]bool)
	for _, userID := range s.presence.ConnectedRecipients(roomID, recipients) {
		connected[userID] = true
	}

	statuses := make(map[string]common.Status, len(recipients))
	receipts := make([]*dbmysql.MessageReceipt, 0, len(recipients))
	for _, userID := range recipients {
		status := common.StatusSent
		if connected[userID] {
			status = common.StatusDelivered
		}
		statuses[userID] = status
		receipts = append(receipts, &dbmysql.MessageReceipt{
			UserID: userID,
			Status: status,
		})
	}

	msg := &dbmysql.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if err := s.messages.Append(ctx, msg, receipts); err != nil {
		return nil, err
	}

	return &DeliveryResult{
		Message:  msg,
		Room:     room,
		RoomName: displayName(room),
		Statuses: statuses,
	}, nil
}

// UpdateStatus applies a recipient-reported transition. The sender of a
// message can never advance it; that is rejected with ErrNotRecipient
// rather than silently ignored.
func (s *deliveryService) UpdateStatus(ctx context.Context, messageID uint, userID string, status common.Status) (bool, error) {
	if !status.IsValid() {
		return false, fmt.Errorf("invalid status %q", status)
	}

	msg, err := s.messages.ByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg.SenderID == userID {
		return false, fmt.Errorf("sender %s on message %d: %w", userID, messageID, common.ErrNotRecipient)
	}
	if _, err := s.receipts.Find(ctx, messageID, userID); err != nil {
		return false, err
	}

	return s.receipts.Advance(ctx, messageID, userID, status)
}

func (s *deliveryService) AggregateStatus(ctx context.Context, messageID uint) (common.Status, error) {
	return s.receipts.AggregateStatus(ctx, messageID)
}

func (s *deliveryService) OnConnect(ctx context.Context, userID, roomID string) ([]uint, error) {
	s.presence.Connect(userID, roomID)

	var since time.Time
	if s.catchupWindow > 0 {
		since = time.Now().UTC().Add(-s.catchupWindow)
	}
	messageIDs, err := s.receipts.MarkBacklogDelivered(ctx, roomID, userID, since)
	if err != nil {
		// Presence stays registered; the backlog is retried on the next
		// connect.
		return nil, err
	}
	return messageIDs, nil
}

func (s *deliveryService) OnDisconnect(userID, roomID string) {
	s.presence.Disconnect(userID, roomID)
}

func (s *deliveryService) ReceiptStatuses(ctx context.Context, messageID uint) (map[string]common.Status, error) {
	return s.receipts.Statuses(ctx, messageID)
}

func (s *deliveryService) History(ctx context.Context, roomID string, limit int, beforeID uint) ([]*dbmysql.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if _, err := s.rooms.ByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.messages.ListRecent(ctx, roomID, limit, beforeID)
}
