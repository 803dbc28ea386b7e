package dbmysql

import (
	"time"

	"chatcore/internal/common"
)

// Room groups a fixed set of participants. Membership is immutable after
// creation; there is no leave operation.
type Room struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:255" json:"name"`
	ChatType  common.ChatType `gorm:"size:20;not null;default:'private'" json:"chat_type"`
	CreatorID string          `gorm:"index;size:36" json:"creator_id"`
	Participants []User `gorm:"many2many:room_participants;foreignKey:ID;joinForeignKey:RoomID;references:UserID;joinReferences:UserID" json:"participants"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RoomParticipant is the join table behind Room.Participants. Declared
// explicitly so the column names are pinned and queryable.
type RoomParticipant struct {
	RoomID    string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:36"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IsParticipant reports whether the user belongs to the room. Participants
// must be preloaded.
func (r *Room) IsParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// RecipientIDs returns the participant ids excluding the sender.
func (r *Room) RecipientIDs(senderID string) []string {
	ids := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p.UserID != senderID {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
