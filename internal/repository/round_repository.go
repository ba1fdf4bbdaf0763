package repository

import (
	"gorm.io/gorm"

	"arguely/internal/models"
	"arguely/internal/storage"
)

type RoundRepository interface {
	// CreateWithDebater persists the round and the creator's DEBATER
	// participant in one transaction.
	CreateWithDebater(round *models.Round, userID uint) error
	FindByID(id uint) (*models.Round, error)
	// FindByIDFull loads the round with its participants, arguments and the
	// users behind them, arguments ordered by creation time.
	FindByIDFull(id uint) (*models.Round, error)
	Update(round *models.Round) error
	// FindOpen lists PVP rounds still waiting for an opponent, newest first.
	FindOpen() ([]models.Round, error)
	CountByStatus(status models.RoundStatus) (int64, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) CreateWithDebater(round *models.Round, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return err
		}
		participant := &models.Participant{
			RoundID: round.ID,
			UserID:  &userID,
			Role:    models.RoleDebater,
		}
		return tx.Create(participant).Error
	})
}

func (r *roundRepository) FindByID(id uint) (*models.Round, error) {
	var round models.Round
	if err := r.db.First(&round, id).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) FindByIDFull(id uint) (*models.Round, error) {
	var round models.Round
	err := r.db.
		Preload("Participants.User").
		Preload("Arguments", func(db *gorm.DB) *gorm.DB {
			return db.Order("arguments.created_at ASC")
		}).
		Preload("Arguments.Participant.User").
		First(&round, id).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) Update(round *models.Round) error {
	return r.db.Save(round).Error
}

func (r *roundRepository) FindOpen() ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.
		Where("mode = ? AND status = ?", models.ModePVP, models.RoundStatusWaiting).
		Order("created_at DESC").
		Preload("Participants", "role = ?", models.RoleDebater).
		Preload("Participants.User").
		Find(&rounds).Error
	return rounds, err
}

func (r *roundRepository) CountByStatus(status models.RoundStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Round{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
