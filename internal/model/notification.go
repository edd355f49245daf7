package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotifInfo    = "info"
	NotifSuccess = "success"
	NotifWarning = "warning"
	NotifError   = "error"
)

// Notification is one entry in a user's in-app notification feed. Created when
// a report is submitted (for reviewers) and when a report is approved (for the
// creator).
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	Link      *string   `gorm:"type:text" json:"link"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
