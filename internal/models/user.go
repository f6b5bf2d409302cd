// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the SkillSwap platform.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"unique;not null" json:"username"`
	Email        string     `gorm:"unique;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Bio          string     `json:"bio"`
	Avatar       string     `json:"avatar"`
	Location     string     `json:"location"`
	Availability string     `gorm:"size:50" json:"availability"`
	IsPublic     bool       `gorm:"default:true" json:"is_public"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	IsBanned     bool       `gorm:"default:false;index" json:"is_banned"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`
	BannedReason string     `json:"banned_reason,omitempty"`
	// AvgRating is the arithmetic mean of all ratings received, rounded to one decimal.
	AvgRating   float64        `gorm:"default:0" json:"avg_rating"`
	RatingCount int            `gorm:"default:0" json:"rating_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Skills      []Skill        `gorm:"foreignKey:UserID" json:"skills,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
