package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

type MessageRepository interface {
	// Append persists the message and its receipts as one atomic unit.
	// A message is never visible to readers without its receipt set.
	Append(ctx context.Context, msg *dbmysql.Message, receipts []*dbmysql.MessageReceipt) error
	ByID(ctx context.Context, messageID uint) (*dbmysql.Message, error)
	// ListRecent returns the newest window of a room's history,
	// oldest-first. A non-zero beforeID restricts the window to messages
	// older than that id (cursor pagination for scroll-back).
	ListRecent(ctx context.Context, roomID string, limit int, beforeID uint) ([]*dbmysql.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Append(ctx context.Context, msg *dbmysql.Message, receipts []*dbmysql.MessageReceipt) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if len(receipts) == 0 {
			return nil
		}
		for _, rc := range receipts {
			rc.MessageID = msg.ID
		}
		return tx.Create(&receipts).Error
	})
	if err != nil {
		return fmt.Errorf("%w: append message: %v", common.ErrStorageFailure, err)
	}
	return nil
}

func (r *messageRepo) ByID(ctx context.Context, messageID uint) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load message %d: %v", common.ErrStorageFailure, messageID, err)
	}
	return &msg, nil
}

func (r *messageRepo) ListRecent(ctx context.Context, roomID string, limit int, beforeID uint) ([]*dbmysql.Message, error) {
	q := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}

	// Auto-increment ids follow SentAt within a room, so id order is
	// chronological and breaks clock-resolution ties.
	var messages []*dbmysql.Message
	if err := q.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("%w: list messages in %s: %v", common.ErrStorageFailure, roomID, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
