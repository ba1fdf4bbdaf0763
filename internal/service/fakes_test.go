package service

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"arguely/internal/models"
	"arguely/internal/repository"
)

// In-memory fakes of the repository interfaces. They reproduce the lookup
// and invariant behavior the services rely on; no SQL involved.

type fakeStore struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	rounds       map[uint]*models.Round
	participants map[uint]*models.Participant
	arguments    []*models.Argument
	nextID       uint

	userErr error // when set, user writes fail
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uint]*models.User),
		rounds:       make(map[uint]*models.Round),
		participants: make(map[uint]*models.Participant),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func copyUser(u *models.User) *models.User { c := *u; return &c }
func copyRound(r *models.Round) *models.Round { c := *r; return &c }
func copyPart(p *models.Participant) *models.Participant { c := *p; return &c }

// --- UserRepository ---

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userErr != nil {
		return r.s.userErr
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// --- RoundRepository ---

type fakeRoundRepo struct{ s *fakeStore }

func (r *fakeRoundRepo) CreateWithDebater(round *models.Round, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	round.ID = r.s.id()
	round.CreatedAt = time.Now()
	r.s.rounds[round.ID] = copyRound(round)

	p := &models.Participant{RoundID: round.ID, UserID: &userID, Role: models.RoleDebater}
	p.ID = r.s.id()
	r.s.participants[p.ID] = p
	return nil
}

func (r *fakeRoundRepo) FindByID(id uint) (*models.Round, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	round, ok := r.s.rounds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyRound(round), nil
}

func (r *fakeRoundRepo) FindByIDFull(id uint) (*models.Round, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	round, ok := r.s.rounds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	full := copyRound(round)
	for _, p := range r.s.participants {
		if p.RoundID == id {
			pc := copyPart(p)
			if p.UserID != nil {
				if u, ok := r.s.users[*p.UserID]; ok {
					pc.User = copyUser(u)
				}
			}
			full.Participants = append(full.Participants, *pc)
		}
	}
	for _, a := range r.s.arguments {
		if a.RoundID == id {
			ac := *a
			if p, ok := r.s.participants[a.ParticipantID]; ok {
				pc := copyPart(p)
				if p.UserID != nil {
					if u, ok := r.s.users[*p.UserID]; ok {
						pc.User = copyUser(u)
					}
				}
				ac.Participant = pc
			}
			full.Arguments = append(full.Arguments, ac)
		}
	}
	return full, nil
}

func (r *fakeRoundRepo) Update(round *models.Round) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rounds[round.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.rounds[round.ID] = copyRound(round)
	return nil
}

func (r *fakeRoundRepo) FindOpen() ([]models.Round, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var open []models.Round
	for _, round := range r.s.rounds {
		if round.Mode == models.ModePVP && round.Status == models.RoundStatusWaiting {
			open = append(open, *copyRound(round))
		}
	}
	return open, nil
}

func (r *fakeRoundRepo) CountByStatus(status models.RoundStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, round := range r.s.rounds {
		if round.Status == status {
			n++
		}
	}
	return n, nil
}

// --- ParticipantRepository ---

type fakeParticipantRepo struct{ s *fakeStore }

func (r *fakeParticipantRepo) FindByID(id uint) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyPart(p), nil
}

func (r *fakeParticipantRepo) FindByRoundAndUser(roundID, userID uint) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.RoundID == roundID && p.UserID != nil && *p.UserID == userID {
			return copyPart(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeParticipantRepo) CountNonModerator(roundID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countNonModeratorLocked(roundID), nil
}

func (r *fakeParticipantRepo) countNonModeratorLocked(roundID uint) int64 {
	var n int64
	for _, p := range r.s.participants {
		if p.RoundID == roundID && p.Role != models.RoleModerator {
			n++
		}
	}
	return n
}

func (r *fakeParticipantRepo) JoinAsDebater(roundID, userID uint) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	round, ok := r.s.rounds[roundID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if round.Mode != models.ModePVP || round.Status == models.RoundStatusCompleted {
		return nil, repository.ErrRoundClosed
	}
	count := r.countNonModeratorLocked(roundID)
	if count >= 2 {
		return nil, repository.ErrRoundFull
	}

	p := &models.Participant{RoundID: roundID, UserID: &userID, Role: models.RoleDebater}
	p.ID = r.s.id()
	r.s.participants[p.ID] = p

	if round.Status == models.RoundStatusWaiting && count+1 >= 2 {
		round.Status = models.RoundStatusActive
	}
	return copyPart(p), nil
}

func (r *fakeParticipantRepo) FindOrCreateSingleton(roundID uint, role models.ParticipantRole) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.RoundID == roundID && p.Role == role {
			return copyPart(p), nil
		}
	}
	p := &models.Participant{RoundID: roundID, Role: role}
	p.ID = r.s.id()
	r.s.participants[p.ID] = p
	return copyPart(p), nil
}

// --- ArgumentRepository ---

type fakeArgumentRepo struct{ s *fakeStore }

func (r *fakeArgumentRepo) Create(argument *models.Argument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	argument.ID = r.s.id()
	argument.CreatedAt = time.Now()
	stored := *argument
	r.s.arguments = append(r.s.arguments, &stored)
	return nil
}

func (r *fakeArgumentRepo) FindByID(id uint) (*models.Argument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.arguments {
		if a.ID == id {
			ac := *a
			if p, ok := r.s.participants[a.ParticipantID]; ok {
				ac.Participant = copyPart(p)
			}
			return &ac, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeArgumentRepo) FindByRound(roundID uint) ([]models.Argument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Argument
	for _, a := range r.s.arguments {
		if a.RoundID == roundID {
			ac := *a
			if p, ok := r.s.participants[a.ParticipantID]; ok {
				ac.Participant = copyPart(p)
			}
			out = append(out, ac)
		}
	}
	return out, nil
}

func (r *fakeArgumentRepo) FindRecent(roundID uint, limit int) ([]models.Argument, error) {
	all, err := r.FindByRound(roundID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *fakeArgumentRepo) UpdateAnalysis(id uint, analysisJSON string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.arguments {
		if a.ID == id {
			a.AIAnalysis = analysisJSON
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
