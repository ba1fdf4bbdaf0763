package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"arguely/internal/ai"
	"arguely/internal/crypto"
	"arguely/internal/models"
	"arguely/internal/repository"
)

var (
	ErrRoundNotFound  = errors.New("round not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotParticipant = errors.New("participant does not belong to caller")
)

// DecryptionPlaceholder replaces argument text that fails to decrypt.
// A corrupt message never aborts rendering of the rest of the transcript.
const DecryptionPlaceholder = "[Decryption Error]"

type RoundService struct {
	roundRepo       repository.RoundRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	judge           *ai.Judge
	cipher          *crypto.Cipher
	logger          *zap.Logger
}

func NewRoundService(
	roundRepo repository.RoundRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
	judge *ai.Judge,
	cipher *crypto.Cipher,
	logger *zap.Logger,
) *RoundService {
	return &RoundService{
		roundRepo:       roundRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		judge:           judge,
		cipher:          cipher,
		logger:          logger,
	}
}

// CreateRound starts a debate. Solo modes are ACTIVE from creation; PVP
// rounds start WAITING and appear in the lobby until an opponent joins.
// The creator's DEBATER participant is created in the same transaction.
func (s *RoundService) CreateRound(userID uint, topic, side string, mode models.RoundMode, persona string) (*models.Round, error) {
	topic = strings.TrimSpace(topic)
	if len(topic) < 5 {
		return nil, ErrInvalidInput
	}
	if side != "For" && side != "Against" {
		side = "For"
	}
	if !models.ValidMode(mode) {
		mode = models.ModeGeneral
	}

	status := models.RoundStatusActive
	if mode == models.ModePVP {
		status = models.RoundStatusWaiting
	}

	round := &models.Round{
		Topic:     topic,
		Mode:      mode,
		Status:    status,
		UserSide:  side,
		AIPersona: persona,
		Code:      uuid.NewString(),
	}
	if err := s.roundRepo.CreateWithDebater(round, userID); err != nil {
		return nil, err
	}
	return round, nil
}

func (s *RoundService) GetRound(id uint) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoundNotFound
	}
	return round, err
}

// ArgumentView is one decrypted transcript entry.
type ArgumentView struct {
	ID        uint                   `json:"id"`
	Role      models.ParticipantRole `json:"role"`
	Username  string                 `json:"username,omitempty"`
	Content   string                 `json:"content"`
	Analysis  json.RawMessage        `json:"ai_analysis,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// RoundView is a round with its transcript decrypted for display.
type RoundView struct {
	Round         *models.Round  `json:"round"`
	Transcript    []ArgumentView `json:"transcript"`
	ParticipantID uint           `json:"participant_id,omitempty"`
}

// GetRoundView loads the round with a decrypted transcript in submission
// order. participantID is the viewer's own participant, zero if they are
// not in the round.
func (s *RoundService) GetRoundView(id, viewerID uint) (*RoundView, error) {
	round, err := s.roundRepo.FindByIDFull(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	view := &RoundView{Round: round}
	for _, arg := range round.Arguments {
		entry := ArgumentView{
			ID:        arg.ID,
			CreatedAt: arg.CreatedAt,
			Content:   DecryptionPlaceholder,
		}
		if arg.Participant != nil {
			entry.Role = arg.Participant.Role
			if arg.Participant.User != nil {
				entry.Username = arg.Participant.User.Username
			}
		}
		if text, err := s.cipher.Decrypt(arg.ContentEncrypted, arg.IV); err == nil {
			entry.Content = text
		}
		if arg.AIAnalysis != "" {
			entry.Analysis = json.RawMessage(arg.AIAnalysis)
		}
		view.Transcript = append(view.Transcript, entry)
	}

	if viewerID != 0 {
		for _, p := range round.Participants {
			if p.UserID != nil && *p.UserID == viewerID {
				view.ParticipantID = p.ID
				break
			}
		}
	}

	round.Arguments = nil
	return view, nil
}

// Join adds a user to a PVP round as a debater. Idempotent: a user already
// in the round gets their existing participant back. The second joiner
// flips the round WAITING→ACTIVE atomically with the insert.
func (s *RoundService) Join(roundID, userID uint) (*models.Participant, error) {
	existing, err := s.participantRepo.FindByRoundAndUser(roundID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.participantRepo.JoinAsDebater(roundID, userID)
}

// OpponentJoined reports whether the round has its full set of debaters.
func (s *RoundService) OpponentJoined(roundID uint) (bool, error) {
	count, err := s.participantRepo.CountNonModerator(roundID)
	if err != nil {
		return false, err
	}
	return count >= 2, nil
}

// OpenRounds lists PVP rounds waiting for an opponent, newest first.
func (s *RoundService) OpenRounds() ([]models.Round, error) {
	return s.roundRepo.FindOpen()
}

// EndAndJudge closes the round: it compiles the decrypted transcript,
// requests a verdict, persists the scorecard and flips the round to
// COMPLETED. The transition is one-way; judging an already-completed round
// returns the stored scorecard unchanged.
func (s *RoundService) EndAndJudge(ctx context.Context, roundID uint) (*ai.Verdict, error) {
	round, err := s.roundRepo.FindByIDFull(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if round.Status == models.RoundStatusCompleted {
		var verdict ai.Verdict
		if err := json.Unmarshal([]byte(round.Scorecard), &verdict); err != nil {
			return nil, err
		}
		return &verdict, nil
	}

	transcript := s.buildTranscript(round)
	verdict := s.judge.Decide(ctx, round.Topic, round.Mode, transcript)

	scorecard, err := json.Marshal(verdict)
	if err != nil {
		return nil, err
	}
	participants := round.Participants
	round.Scorecard = string(scorecard)
	round.Status = models.RoundStatusCompleted
	round.Participants = nil
	round.Arguments = nil
	if err := s.roundRepo.Update(round); err != nil {
		return nil, err
	}

	s.saveScoutingReport(participants, verdict.UserAnalysis)

	return &verdict, nil
}

// buildTranscript labels each decrypted argument by role or username.
// Undecryptable rows are skipped.
func (s *RoundService) buildTranscript(round *models.Round) string {
	var lines []string
	for _, arg := range round.Arguments {
		text, err := s.cipher.Decrypt(arg.ContentEncrypted, arg.IV)
		if err != nil {
			continue
		}

		label := "AI_OPPONENT"
		if arg.Participant != nil {
			if arg.Participant.Role == models.RoleModerator {
				label = "MODERATOR"
			} else if arg.Participant.User != nil {
				label = arg.Participant.User.Username
			}
		}
		lines = append(lines, label+": \""+text+"\"")
	}
	return strings.Join(lines, "\n\n")
}

// saveScoutingReport overwrites the human debater's AI memory with the
// judge's user analysis. Best-effort; errors are swallowed.
func (s *RoundService) saveScoutingReport(participants []models.Participant, analysis *ai.UserAnalysis) {
	if analysis == nil {
		return
	}
	for _, p := range participants {
		if p.Role == models.RoleAI || p.UserID == nil {
			continue
		}
		user, err := s.userRepo.FindByID(*p.UserID)
		if err != nil {
			s.logger.Warn("scouting report: user lookup failed", zap.Error(err))
			return
		}
		raw, err := json.Marshal(analysis)
		if err != nil {
			return
		}
		user.AIMemory = string(raw)
		if err := s.userRepo.Update(user); err != nil {
			s.logger.Warn("scouting report: save failed", zap.Error(err))
		}
		return
	}
}

// Stats returns the landing-page counters: registered users and rounds
// currently in play.
func (s *RoundService) Stats() (online, active int64) {
	var err error
	if online, err = s.userRepo.Count(); err != nil {
		s.logger.Warn("stats: user count failed", zap.Error(err))
	}
	if active, err = s.roundRepo.CountByStatus(models.RoundStatusActive); err != nil {
		s.logger.Warn("stats: round count failed", zap.Error(err))
	}
	return online, active
}
