package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"chatcore/internal/chat/repository"
	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

// RoomService covers the room and user surface around the delivery
// engine: creation, listing, display names.
type RoomService interface {
	CreateUser(ctx context.Context, username string) (*dbmysql.User, error)
	CreateRoom(ctx context.Context, name string, chatType common.ChatType, creatorID string, participantIDs []string) (*dbmysql.Room, error)
	RoomsForUser(ctx context.Context, userID string) ([]*dbmysql.Room, error)
	DisplayName(room *dbmysql.Room) string
}

type roomService struct {
	rooms repository.RoomRepository
	users repository.UserRepository
}

func NewRoomService(rooms repository.RoomRepository, users repository.UserRepository) RoomService {
	return &roomService{rooms: rooms, users: users}
}

func (s *roomService) CreateUser(ctx context.Context, username string) (*dbmysql.User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	user := &dbmysql.User{
		UserID:   uuid.NewString(),
		Username: username,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRoom creates a room with an immutable participant set. Private
// rooms hold exactly two participants; group rooms at least two.
func (s *roomService) CreateRoom(ctx context.Context, name string, chatType common.ChatType, creatorID string, participantIDs []string) (*dbmysql.Room, error) {
	if !chatType.IsValid() {
		return nil, fmt.Errorf("invalid chat type %q", chatType)
	}

	unique := dedupe(participantIDs)
	if len(unique) < 2 {
		return nil, errors.New("a room needs at least two distinct participants")
	}
	if chatType == common.ChatTypePrivate && len(unique) != 2 {
		return nil, errors.New("a private room needs exactly two participants")
	}

	participants, err := s.users.ByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(participants) != len(unique) {
		return nil, errors.New("unknown participant id")
	}

	room := &dbmysql.Room{
		ID:           uuid.NewString(),
		Name:         name,
		ChatType:     chatType,
		CreatorID:    creatorID,
		Participants: participants,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) RoomsForUser(ctx context.Context, userID string) ([]*dbmysql.Room, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.rooms.ByParticipant(ctx, userID)
}

func (s *roomService) DisplayName(room *dbmysql.Room) string {
	return displayName(room)
}

// displayName resolves a room's name: two-participant rooms derive it from
// the participants, group rooms use the explicit name or a generated
// fallback.
func displayName(room *dbmysql.Room) string {
	if room.ChatType == common.ChatTypePrivate && len(room.Participants) >= 2 {
		return fmt.Sprintf("Chat between %s and %s",
			room.Participants[0].Username, room.Participants[1].Username)
	}
	if room.Name != "" {
		return room.Name
	}
	return "Group " + room.ID
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
