// Package models contains data structures for the application's domain models.
package models

import "time"

// SkillProficiency is one of the four ordered proficiency tiers.
type SkillProficiency string

const (
	ProficiencyBeginner     SkillProficiency = "beginner"
	ProficiencyIntermediate SkillProficiency = "intermediate"
	ProficiencyAdvanced     SkillProficiency = "advanced"
	ProficiencyExpert       SkillProficiency = "expert"
)

// SkillType flags whether the owner offers the skill or wants to learn it.
type SkillType string

const (
	// SkillTypeOffered marks a skill the owner can teach.
	SkillTypeOffered SkillType = "offered"
	// SkillTypeWanted marks a skill the owner wants to learn.
	SkillTypeWanted SkillType = "wanted"
)

// Skill represents a single offered or wanted skill entry owned by a user.
// A user may not hold duplicate (name, type) pairs.
type Skill struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      uint             `gorm:"not null;index;uniqueIndex:idx_skills_owner_name_type" json:"user_id"`
	Name        string           `gorm:"size:100;not null;uniqueIndex:idx_skills_owner_name_type" json:"name"`
	Category    string           `gorm:"size:50" json:"category"`
	Description string           `gorm:"type:text" json:"description"`
	Proficiency SkillProficiency `gorm:"type:varchar(20);default:'beginner'" json:"proficiency"`
	Type        SkillType        `gorm:"type:varchar(10);not null;uniqueIndex:idx_skills_owner_name_type;index:idx_skills_type" json:"type"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

// ValidProficiency reports whether p is one of the four known tiers.
func ValidProficiency(p SkillProficiency) bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// ValidSkillType reports whether t is a known skill direction.
func ValidSkillType(t SkillType) bool {
	return t == SkillTypeOffered || t == SkillTypeWanted
}
