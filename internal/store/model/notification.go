package model

import (
	"encoding/json"
	"time"
)

// Notification is the durable, user-visible record of a job completion.
// Push delivery is layered on top of it and may fail without trace here.
type Notification struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"index;not null"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
	Title        string `gorm:"not null"`
	Message      string `gorm:"not null"`
	RelatedJobID *int64
	IsRead       bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"index"`
}

type NotificationList []Notification

func (n Notification) String() string {
	val, _ := json.Marshal(n)
	return string(val)
}
