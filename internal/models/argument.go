package models

import (
	"gorm.io/gorm"
)

// Argument is one turn in a round. Rows are append-only and readers
// reconstruct conversation order from CreatedAt, never from a sequence
// number. Content is encrypted at rest and decrypted on read.
type Argument struct {
	gorm.Model
	RoundID       uint `gorm:"not null;index" json:"round_id"`
	ParticipantID uint `gorm:"not null" json:"participant_id"`
	// Hex-encoded AES-256-CBC ciphertext plus its hex IV.
	ContentEncrypted string `gorm:"type:text;not null" json:"-"`
	IV               string `gorm:"type:varchar(32);not null" json:"-"`
	// Analyst verdict, attached asynchronously after creation.
	// Best-effort: may never arrive.
	AIAnalysis string `gorm:"type:jsonb" json:"ai_analysis,omitempty"`

	Participant *Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}
