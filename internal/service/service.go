package service

import (
	"go.uber.org/zap"

	"arguely/internal/ai"
	"arguely/internal/crypto"
	"arguely/internal/repository"
)

type Services struct {
	User     *UserService
	Round    *RoundService
	Argument *ArgumentService
	Feed     *FeedManager
	Opponent *ai.Opponent
}

func NewServices(repos *repository.Repositories, client *ai.Client, cipher *crypto.Cipher, logger *zap.Logger) *Services {
	feed := NewFeedManager(logger)

	analyst := ai.NewAnalyst(client, logger)
	moderator := ai.NewModerator(client, logger)
	judge := ai.NewJudge(client, logger)
	opponent := ai.NewOpponent(client, logger)

	return &Services{
		User:     NewUserService(repos.User, logger),
		Round:    NewRoundService(repos.Round, repos.Participant, repos.User, judge, cipher, logger),
		Argument: NewArgumentService(repos.Argument, repos.Participant, repos.Round, analyst, moderator, cipher, feed, logger),
		Feed:     feed,
		Opponent: opponent,
	}
}
