// Package models contains data structures for the application's domain models.
package models

import "time"

// Rating records one participant's 1-5 score for the other participant of a
// completed swap. At most one rating exists per (swap, rater) pair;
// re-submission updates the existing row in place.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SwapID    uint      `gorm:"not null;uniqueIndex:idx_ratings_swap_rater" json:"swap_id"`
	RaterID   uint      `gorm:"not null;uniqueIndex:idx_ratings_swap_rater" json:"rater_id"`
	RatedID   uint      `gorm:"not null;index" json:"rated_id"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
	Feedback  string    `gorm:"size:1000" json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Swap  SwapRequest `gorm:"foreignKey:SwapID" json:"swap,omitempty"`
	Rater User        `gorm:"foreignKey:RaterID" json:"rater,omitempty"`
	Rated User        `gorm:"foreignKey:RatedID" json:"rated,omitempty"`
}

// TableName specifies the table name for GORM
func (Rating) TableName() string {
	return "ratings"
}
