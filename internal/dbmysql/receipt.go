package dbmysql

import (
	"time"

	"chatcore/internal/common"
)

// MessageReceipt tracks the delivery state of one message for one
// recipient. Keyed by (message, user); recipients are the room's
// participants minus the sender. Status never moves backward.
type MessageReceipt struct {
	MessageID uint          `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	UserID    string        `gorm:"primaryKey;size:36" json:"user_id"`
	Status    common.Status `gorm:"size:20;not null;default:'sent'" json:"status"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}
