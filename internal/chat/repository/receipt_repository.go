package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

type ReceiptRepository interface {
	Find(ctx context.Context, messageID uint, userID string) (*dbmysql.MessageReceipt, error)
	// Advance applies the monotonic-max rule: the receipt moves to the
	// target status only if it is currently lower. Returns whether a
	// change occurred.
	Advance(ctx context.Context, messageID uint, userID string, status common.Status) (bool, error)
	// AggregateStatus derives the message-level status from the worst
	// receipt. A message with zero receipts is Sent by convention.
	AggregateStatus(ctx context.Context, messageID uint) (common.Status, error)
	Statuses(ctx context.Context, messageID uint) (map[string]common.Status, error)
	// MarkBacklogDelivered advances every Sent receipt addressed to the
	// user in the room to Delivered and returns the affected message ids.
	// A non-zero since bounds the scanned backlog window.
	MarkBacklogDelivered(ctx context.Context, roomID, userID string, since time.Time) ([]uint, error)
}

type receiptRepo struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Find(ctx context.Context, messageID uint, userID string) (*dbmysql.MessageReceipt, error) {
	var receipt dbmysql.MessageReceipt
	err := r.db.WithContext(ctx).
		First(&receipt, "message_id = ? AND user_id = ?", messageID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotRecipient
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load receipt %d/%s: %v", common.ErrStorageFailure, messageID, userID, err)
	}
	return &receipt, nil
}

func (r *receiptRepo) Advance(ctx context.Context, messageID uint, userID string, status common.Status) (bool, error) {
	lower := statusesBelow(status)
	if len(lower) == 0 {
		// Advancing to Sent can never change anything.
		return false, nil
	}

	// The guarded UPDATE makes racing advances commute: whichever order
	// they land in, the row ends at the max status and each caller learns
	// whether it was the one that moved it.
	res := r.db.WithContext(ctx).
		Model(&dbmysql.MessageReceipt{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Where("status IN ?", lower).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("%w: advance receipt %d/%s: %v", common.ErrStorageFailure, messageID, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *receiptRepo) AggregateStatus(ctx context.Context, messageID uint) (common.Status, error) {
	var statuses []common.Status
	err := r.db.WithContext(ctx).
		Model(&dbmysql.MessageReceipt{}).
		Where("message_id = ?", messageID).
		Pluck("status", &statuses).Error
	if err != nil {
		return "", fmt.Errorf("%w: aggregate status for %d: %v", common.ErrStorageFailure, messageID, err)
	}
	if len(statuses) == 0 {
		return common.StatusSent, nil
	}

	worst := common.StatusRead
	for _, s := range statuses {
		if s.Rank() < worst.Rank() {
			worst = s
		}
	}
	return worst, nil
}

func (r *receiptRepo) Statuses(ctx context.Context, messageID uint) (map[string]common.Status, error) {
	var receipts []dbmysql.MessageReceipt
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load receipts for %d: %v", common.ErrStorageFailure, messageID, err)
	}

	statuses := make(map[string]common.Status, len(receipts))
	for _, rc := range receipts {
		statuses[rc.UserID] = rc.Status
	}
	return statuses, nil
}

func (r *receiptRepo) MarkBacklogDelivered(ctx context.Context, roomID, userID string, since time.Time) ([]uint, error) {
	var messageIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&dbmysql.MessageReceipt{}).
			Joins("JOIN messages ON messages.id = message_receipts.message_id").
			Where("messages.room_id = ?", roomID).
			Where("message_receipts.user_id = ?", userID).
			Where("message_receipts.status = ?", common.StatusSent)
		if !since.IsZero() {
			q = q.Where("messages.sent_at >= ?", since)
		}
		if err := q.Pluck("message_receipts.message_id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) == 0 {
			return nil
		}
		return tx.Model(&dbmysql.MessageReceipt{}).
			Where("message_id IN ?", messageIDs).
			Where("user_id = ?", userID).
			Where("status = ?", common.StatusSent).
			Update("status", common.StatusDelivered).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: mark backlog delivered in %s for %s: %v", common.ErrStorageFailure, roomID, userID, err)
	}
	return messageIDs, nil
}

func statusesBelow(status common.Status) []common.Status {
	switch status {
	case common.StatusDelivered:
		return []common.Status{common.StatusSent}
	case common.StatusRead:
		return []common.Status{common.StatusSent, common.StatusDelivered}
	}
	return nil
}
