package model

import "time"

const (
	NoteTitleMaxLen = 220
	MinPriority     = 1
	MaxPriority     = 10
)

type Note struct {
	ID      string `gorm:"primaryKey;type:uuid"`
	UserID  string `gorm:"type:uuid;index;not null"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title   string `gorm:"size:220;not null"`
	Content string `gorm:"type:text;not null"`

	// Assigned by the store on creation and never updated afterwards
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false;index"`
	DueDate    time.Time `gorm:"not null;index"`
	Priority   int       `gorm:"not null"`
	IsComplete bool      `gorm:"not null"`

	// Flipped once by the reminder job after the due date mail went out
	IsEmailSend bool `gorm:"not null;index"`
}
