// Package models contains data structures for the application's domain models.
package models

import "time"

// AdminMessage is a platform-wide announcement authored by an admin.
// Non-admin users can only read these.
type AdminMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Category  string    `gorm:"size:50;default:'general'" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (AdminMessage) TableName() string {
	return "admin_messages"
}
