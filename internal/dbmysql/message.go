package dbmysql

import (
	"time"
)

// Message is immutable after creation. SentAt is assigned at persistence
// time; within a room, ordering ties on SentAt are broken by the
// auto-increment ID.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"index;size:36;not null" json:"room_id"`
	SenderID  string    `gorm:"index;size:36;not null" json:"sender_id"`
	Body      string    `gorm:"type:text" json:"body"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
