package service

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"arguely/internal/models"
	"arguely/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) CreateUser(user *models.User) error {
	return s.userRepo.Create(user)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.FindByEmail(email)
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

type activityEntry struct {
	Event string `json:"event"`
	URL   string `json:"url"`
	Desc  string `json:"desc"`
	Time  string `json:"time"`
}

// LogActivity appends one entry to the user's activity trail. Best-effort:
// failures are logged and swallowed, a broken trail never fails a request.
func (s *UserService) LogActivity(userID uint, event, url, desc string) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		s.logger.Warn("activity log: user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	var entries []activityEntry
	if user.ActivityLogs != "" {
		if err := json.Unmarshal([]byte(user.ActivityLogs), &entries); err != nil {
			entries = nil
		}
	}
	entries = append(entries, activityEntry{
		Event: event,
		URL:   url,
		Desc:  desc,
		Time:  time.Now().UTC().Format(time.RFC3339),
	})

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	user.ActivityLogs = string(raw)
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Warn("activity log: save failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
