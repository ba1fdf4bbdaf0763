package repository

import (
	"arguely/internal/models"
	"arguely/internal/storage"
)

type ArgumentRepository interface {
	Create(argument *models.Argument) error
	FindByID(id uint) (*models.Argument, error)
	// FindRecent returns the last limit arguments of a round, oldest first.
	FindRecent(roundID uint, limit int) ([]models.Argument, error)
	UpdateAnalysis(id uint, analysisJSON string) error
}

type argumentRepository struct {
	db *storage.PostgresDB
}

func NewArgumentRepository(db *storage.PostgresDB) ArgumentRepository {
	return &argumentRepository{db: db}
}

func (r *argumentRepository) Create(argument *models.Argument) error {
	return r.db.Create(argument).Error
}

func (r *argumentRepository) FindByID(id uint) (*models.Argument, error) {
	var argument models.Argument
	if err := r.db.Preload("Participant").First(&argument, id).Error; err != nil {
		return nil, err
	}
	return &argument, nil
}

func (r *argumentRepository) FindRecent(roundID uint, limit int) ([]models.Argument, error) {
	// Grab the newest rows, then restore chronological order.
	var newest []models.Argument
	err := r.db.
		Where("round_id = ?", roundID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Participant").
		Find(&newest).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

func (r *argumentRepository) UpdateAnalysis(id uint, analysisJSON string) error {
	return r.db.Model(&models.Argument{}).
		Where("id = ?", id).
		Update("ai_analysis", analysisJSON).Error
}
