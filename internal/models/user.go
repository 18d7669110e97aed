package models

import (
	"time"
)

// User is a credential record. Email is the natural key; the verification
// token is present only while the email is unconfirmed.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username          string  `gorm:"not null" json:"username"`
	Email             string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string  `gorm:"not null" json:"-"`
	IsEmailVerified   bool    `gorm:"default:false" json:"is_email_verified"`
	VerificationToken *string `gorm:"uniqueIndex" json:"-"`
}
