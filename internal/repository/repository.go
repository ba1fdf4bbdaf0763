package repository

import "arguely/internal/storage"

type Repositories struct {
	User        UserRepository
	Round       RoundRepository
	Participant ParticipantRepository
	Argument    ArgumentRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Round:       NewRoundRepository(db),
		Participant: NewParticipantRepository(db),
		Argument:    NewArgumentRepository(db),
	}
}
