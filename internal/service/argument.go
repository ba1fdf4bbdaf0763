package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"arguely/internal/ai"
	"arguely/internal/crypto"
	"arguely/internal/models"
	"arguely/internal/repository"
)

// ArgumentService runs the submission pipeline. The user's own text is the
// only thing that must be durable; every collaborator call hanging off it is
// a best-effort enrichment.
type ArgumentService struct {
	argumentRepo    repository.ArgumentRepository
	participantRepo repository.ParticipantRepository
	roundRepo       repository.RoundRepository
	analyst         *ai.Analyst
	moderator       *ai.Moderator
	cipher          *crypto.Cipher
	feed            *FeedManager
	logger          *zap.Logger
}

func NewArgumentService(
	argumentRepo repository.ArgumentRepository,
	participantRepo repository.ParticipantRepository,
	roundRepo repository.RoundRepository,
	analyst *ai.Analyst,
	moderator *ai.Moderator,
	cipher *crypto.Cipher,
	feed *FeedManager,
	logger *zap.Logger,
) *ArgumentService {
	return &ArgumentService{
		argumentRepo:    argumentRepo,
		participantRepo: participantRepo,
		roundRepo:       roundRepo,
		analyst:         analyst,
		moderator:       moderator,
		cipher:          cipher,
		feed:            feed,
		logger:          logger,
	}
}

// Submit persists one turn and fans out to the collaborators: moderation
// (PVP, synchronous, may append a moderator argument) and analysis
// (all modes, asynchronous, may patch the argument later). The participant
// must be the caller's own debater seat in this round.
func (s *ArgumentService) Submit(ctx context.Context, roundID, participantID, userID uint, text string) (*models.Argument, error) {
	if text == "" {
		return nil, ErrInvalidInput
	}

	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	participant, err := s.participantRepo.FindByID(participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	if participant.RoundID != roundID || participant.UserID == nil || *participant.UserID != userID {
		return nil, ErrNotParticipant
	}

	argument, err := s.store(roundID, participantID, text)
	if err != nil {
		return nil, err
	}
	s.broadcast(round.ID, "argument", models.RoleDebater, text)

	// The submission succeeded the moment the row above was durable.

	if round.Mode == models.ModePVP {
		if correction := s.moderator.Moderate(ctx, round.Topic, text); correction != "" {
			s.postModeratorCorrection(roundID, correction)
		}
	}

	go s.analyze(argument.ID, text, round.Topic)

	return argument, nil
}

// Analyze re-runs the analyst for one existing argument and patches its
// stored analysis. Returns the fallback analysis rather than an error when
// the collaborator is down.
func (s *ArgumentService) Analyze(ctx context.Context, argumentID uint) (*ai.Analysis, error) {
	argument, err := s.argumentRepo.FindByID(argumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("argument not found")
		}
		return nil, err
	}
	round, err := s.roundRepo.FindByID(argument.RoundID)
	if err != nil {
		return nil, err
	}
	text, err := s.cipher.Decrypt(argument.ContentEncrypted, argument.IV)
	if err != nil {
		return nil, err
	}

	analysis := s.analyst.Analyze(ctx, text, round.Topic)
	if raw, err := json.Marshal(analysis); err == nil {
		if err := s.argumentRepo.UpdateAnalysis(argument.ID, string(raw)); err != nil {
			s.logger.Warn("analysis patch failed", zap.Uint("argument_id", argument.ID), zap.Error(err))
		}
	}
	return &analysis, nil
}

// StoreAIReply persists a finished AI rebuttal as a turn authored by the
// round's (lazily created) AI participant.
func (s *ArgumentService) StoreAIReply(roundID uint, text string) error {
	aiParticipant, err := s.participantRepo.FindOrCreateSingleton(roundID, models.RoleAI)
	if err != nil {
		return err
	}
	if _, err := s.store(roundID, aiParticipant.ID, text); err != nil {
		return err
	}
	s.broadcast(roundID, "argument", models.RoleAI, text)
	return nil
}

// History returns the last limit turns as chat messages for the opponent:
// AI turns as assistant, moderator interventions as system notices, human
// turns as user. Undecryptable rows are skipped.
func (s *ArgumentService) History(roundID uint, limit int) ([]ai.Message, error) {
	arguments, err := s.argumentRepo.FindRecent(roundID, limit)
	if err != nil {
		return nil, err
	}

	history := make([]ai.Message, 0, len(arguments))
	for _, arg := range arguments {
		text, err := s.cipher.Decrypt(arg.ContentEncrypted, arg.IV)
		if err != nil {
			continue
		}

		role := "user"
		if arg.Participant != nil {
			switch arg.Participant.Role {
			case models.RoleAI:
				role = "assistant"
			case models.RoleModerator:
				role = "system"
				text = "[REFEREE NOTICE]: " + text
			}
		}
		history = append(history, ai.Message{Role: role, Content: text})
	}
	return history, nil
}

func (s *ArgumentService) store(roundID, participantID uint, text string) (*models.Argument, error) {
	contentHex, ivHex, err := s.cipher.Encrypt(text)
	if err != nil {
		return nil, err
	}
	argument := &models.Argument{
		RoundID:          roundID,
		ParticipantID:    participantID,
		ContentEncrypted: contentHex,
		IV:               ivHex,
	}
	if err := s.argumentRepo.Create(argument); err != nil {
		return nil, err
	}
	return argument, nil
}

func (s *ArgumentService) postModeratorCorrection(roundID uint, correction string) {
	moderator, err := s.participantRepo.FindOrCreateSingleton(roundID, models.RoleModerator)
	if err != nil {
		s.logger.Warn("moderator participant failed", zap.Uint("round_id", roundID), zap.Error(err))
		return
	}
	if _, err := s.store(roundID, moderator.ID, correction); err != nil {
		s.logger.Warn("moderator correction save failed", zap.Uint("round_id", roundID), zap.Error(err))
		return
	}
	s.broadcast(roundID, "argument", models.RoleModerator, correction)
}

// analyze runs detached from the request; the argument keeps a null
// analysis if anything here fails.
func (s *ArgumentService) analyze(argumentID uint, text, topic string) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	analysis := s.analyst.Analyze(ctx, text, topic)
	raw, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := s.argumentRepo.UpdateAnalysis(argumentID, string(raw)); err != nil {
		s.logger.Warn("analysis patch failed", zap.Uint("argument_id", argumentID), zap.Error(err))
	}
}

func (s *ArgumentService) broadcast(roundID uint, eventType string, role models.ParticipantRole, content string) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(roundID, &FeedEvent{
		Type:      eventType,
		RoundID:   roundID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}
