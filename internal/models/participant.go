package models

import (
	"gorm.io/gorm"
)

// Participant attaches an identity to a round. UserID is nil for the AI
// opponent and the moderator, which are created lazily on first need.
//
// Invariant: at most two non-moderator participants per round; AI and
// moderator are singletons per round.
type Participant struct {
	gorm.Model
	RoundID uint            `gorm:"not null;index" json:"round_id"`
	UserID  *uint           `gorm:"index" json:"user_id,omitempty"`
	Role    ParticipantRole `gorm:"type:varchar(20);not null" json:"role"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type ParticipantRole string

const (
	RoleDebater   ParticipantRole = "DEBATER"
	RoleAI        ParticipantRole = "AI"
	RoleModerator ParticipantRole = "MODERATOR"
)
