package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

type RoomRepository interface {
	Create(ctx context.Context, room *dbmysql.Room) error
	ByID(ctx context.Context, roomID string) (*dbmysql.Room, error)
	ByParticipant(ctx context.Context, userID string) ([]*dbmysql.Room, error)
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *dbmysql.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("%w: create room: %v", common.ErrStorageFailure, err)
	}
	return nil
}

// ByID loads a room with its participants. Returns ErrRoomNotFound for an
// unknown id.
func (r *roomRepo) ByID(ctx context.Context, roomID string) (*dbmysql.Room, error) {
	var room dbmysql.Room
	err := r.db.WithContext(ctx).Preload("Participants").First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load room %s: %v", common.ErrStorageFailure, roomID, err)
	}
	return &room, nil
}

// ByParticipant lists the user's rooms ordered by most recent message
// first; rooms with no messages sort last.
func (r *roomRepo) ByParticipant(ctx context.Context, userID string) ([]*dbmysql.Room, error) {
	var rooms []*dbmysql.Room
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN room_participants rp ON rp.room_id = rooms.id").
		Where("rp.user_id = ?", userID).
		Order("(SELECT MAX(m.sent_at) FROM messages m WHERE m.room_id = rooms.id) DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list rooms for %s: %v", common.ErrStorageFailure, userID, err)
	}
	return rooms, nil
}
