package models

import (
	"time"
)

// Book belongs to the user that created it; UserID scopes every query.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"not null" json:"title"`
	Author      string `gorm:"not null" json:"author"`
	PublishYear int    `gorm:"not null" json:"publishYear"`
	UserID      uint   `gorm:"index;not null" json:"userId"`
}
