// Package models contains data structures for the application's domain models.
package models

import "time"

// SwapStatus represents the status of a swap request.
type SwapStatus string

const (
	// SwapStatusPending indicates a newly created, unanswered swap request.
	SwapStatusPending SwapStatus = "pending"
	// SwapStatusAccepted indicates the provider agreed to the swap.
	SwapStatusAccepted SwapStatus = "accepted"
	// SwapStatusRejected indicates the provider declined the swap.
	SwapStatusRejected SwapStatus = "rejected"
	// SwapStatusCompleted indicates both sides finished the exchange.
	SwapStatusCompleted SwapStatus = "completed"
	// SwapStatusCancelled indicates the requester withdrew the request.
	SwapStatusCancelled SwapStatus = "cancelled"
)

// SwapRequest represents a proposed exchange: the requester offers one of
// their own skills in return for a skill owned by another user. The provider
// is always derived as the owner of the wanted skill and never stored.
type SwapRequest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	RequesterID    uint       `gorm:"not null;index" json:"requester_id"`
	OfferedSkillID uint       `gorm:"not null" json:"offered_skill_id"`
	WantedSkillID  uint       `gorm:"not null;index" json:"wanted_skill_id"`
	Status         SwapStatus `gorm:"type:varchar(20);default:'pending';index:idx_swap_requests_status" json:"status"`
	Message        string     `gorm:"size:500" json:"message,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Requester    User  `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	OfferedSkill Skill `gorm:"foreignKey:OfferedSkillID" json:"offered_skill,omitempty"`
	WantedSkill  Skill `gorm:"foreignKey:WantedSkillID" json:"wanted_skill,omitempty"`
}

// TableName specifies the table name for GORM
func (SwapRequest) TableName() string {
	return "swap_requests"
}

// ProviderID derives the provider from the wanted skill's owner.
// Requires WantedSkill to be loaded.
func (s *SwapRequest) ProviderID() uint {
	return s.WantedSkill.UserID
}

// Terminal reports whether no further transition is permitted from status.
// A completed swap still accepts ratings, but its status never changes again.
func (s SwapStatus) Terminal() bool {
	switch s {
	case SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

// ValidSwapStatus reports whether st is a known swap status.
func ValidSwapStatus(st SwapStatus) bool {
	switch st {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}
