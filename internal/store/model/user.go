package model

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           int64  `gorm:"primaryKey"`
	FullName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	// Push delivery address of the user's device. Nil until the client
	// registers one; uniqueness keeps a device bound to a single account.
	PushToken *string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserList []User

func (u User) String() string {
	val, _ := json.Marshal(u)
	return string(val)
}
