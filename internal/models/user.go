package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UID         string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // Hash
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// No DeletedAt, accounts are never removed by the app
}

// Profile holds the editable fields shown on the profile screens.
// It is created implicitly on first save, there is no explicit
// creation step.
type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"-"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name       string    `json:"name"`
	University string    `json:"university"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
