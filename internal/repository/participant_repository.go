package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arguely/internal/models"
	"arguely/internal/storage"
)

var (
	// ErrRoundFull is returned when a round already has two debaters.
	ErrRoundFull = errors.New("round already has two debaters")
	// ErrRoundClosed is returned when joining a round that is not joinable.
	ErrRoundClosed = errors.New("round is not open for joining")
)

type ParticipantRepository interface {
	FindByID(id uint) (*models.Participant, error)
	FindByRoundAndUser(roundID, userID uint) (*models.Participant, error)
	CountNonModerator(roundID uint) (int64, error)
	// JoinAsDebater atomically checks the debater bound, inserts the
	// participant and flips a WAITING round to ACTIVE. The round row is
	// locked for the duration so two simultaneous joiners serialize.
	JoinAsDebater(roundID, userID uint) (*models.Participant, error)
	// FindOrCreateSingleton returns the round's AI or moderator participant,
	// creating it on first use. At most one per (round, role).
	FindOrCreateSingleton(roundID uint, role models.ParticipantRole) (*models.Participant, error)
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) FindByID(id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.First(&participant, id).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindByRoundAndUser(roundID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.Where("round_id = ? AND user_id = ?", roundID, userID).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) CountNonModerator(roundID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participant{}).
		Where("round_id = ? AND role <> ?", roundID, models.RoleModerator).
		Count(&count).Error
	return count, err
}

func (r *participantRepository) JoinAsDebater(roundID, userID uint) (*models.Participant, error) {
	var participant *models.Participant

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var round models.Round
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&round, roundID).Error; err != nil {
			return err
		}
		if round.Mode != models.ModePVP || round.Status == models.RoundStatusCompleted {
			return ErrRoundClosed
		}

		var count int64
		if err := tx.Model(&models.Participant{}).
			Where("round_id = ? AND role <> ?", roundID, models.RoleModerator).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= 2 {
			return ErrRoundFull
		}

		participant = &models.Participant{
			RoundID: roundID,
			UserID:  &userID,
			Role:    models.RoleDebater,
		}
		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		if round.Status == models.RoundStatusWaiting && count+1 >= 2 {
			round.Status = models.RoundStatusActive
			if err := tx.Save(&round).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

func (r *participantRepository) FindOrCreateSingleton(roundID uint, role models.ParticipantRole) (*models.Participant, error) {
	participant := &models.Participant{
		RoundID: roundID,
		Role:    role,
	}
	err := r.db.
		Where("round_id = ? AND role = ?", roundID, role).
		FirstOrCreate(participant).Error
	if err != nil {
		return nil, err
	}
	return participant, nil
}
