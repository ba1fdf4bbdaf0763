package models

import (
	"gorm.io/gorm"
)

// User is a registered account. A user may appear as a participant in many
// rounds but owns none of them.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	// Scouting report written by the judge after each completed round.
	// Overwritten, not appended: the last judgment wins.
	AIMemory string `gorm:"type:jsonb" json:"ai_memory,omitempty"`
	// Append-only activity trail, stored as a JSON array.
	ActivityLogs string `gorm:"type:jsonb" json:"-"`
}
