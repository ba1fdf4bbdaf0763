package models

import (
	"gorm.io/gorm"
)

// Round is a single debate between users and/or the AI opponent.
//
// Status is the only mutable lifecycle field until completion; once the
// scorecard is attached and status is COMPLETED the round is immutable.
type Round struct {
	gorm.Model
	Topic    string      `gorm:"type:text;not null" json:"topic"`
	Mode     RoundMode   `gorm:"type:varchar(20);not null" json:"mode"`
	Status   RoundStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	UserSide string      `gorm:"type:varchar(10)" json:"user_side"`
	// Optional AI opponent persona, appended to the rebuttal prompt.
	AIPersona string `gorm:"type:varchar(50)" json:"ai_persona,omitempty"`
	// Verdict payload, set exactly once when the round is judged.
	Scorecard string `gorm:"type:jsonb" json:"scorecard,omitempty"`
	// Non-guessable invite code used in shared lobby links.
	Code string `gorm:"type:varchar(36);uniqueIndex" json:"code"`

	Participants []Participant `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Arguments    []Argument    `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"arguments,omitempty"`
}

// RoundMode is a closed enumeration; prompt conditioning maps over it rather
// than matching open strings.
type RoundMode string

const (
	ModeGeneral       RoundMode = "GENERAL"
	ModePVP           RoundMode = "PVP"
	ModePoliticsIndia RoundMode = "POLITICS_INDIA"
	ModeAdult         RoundMode = "ADULT"
	ModeGenZ          RoundMode = "GENZ"
)

// ValidMode reports whether m is one of the known round modes.
func ValidMode(m RoundMode) bool {
	switch m {
	case ModeGeneral, ModePVP, ModePoliticsIndia, ModeAdult, ModeGenZ:
		return true
	}
	return false
}

// Solo reports whether the round is played against the AI opponent.
func (m RoundMode) Solo() bool {
	return m != ModePVP
}

type RoundStatus string

const (
	RoundStatusWaiting   RoundStatus = "WAITING"
	RoundStatusActive    RoundStatus = "ACTIVE"
	RoundStatusCompleted RoundStatus = "COMPLETED"
)
