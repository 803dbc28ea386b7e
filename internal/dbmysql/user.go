package dbmysql

import (
	"time"
)

// User is the minimal identity record the chat core needs for display
// names. Authentication lives upstream.
type User struct {
	UserID    string    `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	Username  string    `gorm:"column:username;uniqueIndex;size:50;not null" json:"username"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
