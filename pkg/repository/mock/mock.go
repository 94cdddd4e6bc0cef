package mock

import (
	"context"
	"sync"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo       *UserRepo
	ProfileRepo    *ProfileRepo
	AssignmentRepo *AssignmentRepo
	BidRepo        *BidRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:       &UserRepo{Users: map[string]*models.User{}},
		ProfileRepo:    &ProfileRepo{Profiles: map[string]*models.Profile{}},
		AssignmentRepo: &AssignmentRepo{Assignments: map[string]*models.Assignment{}},
		BidRepo:        &BidRepo{Bids: map[string]*models.Bid{}},
	}
}

type UserRepo struct {
	mu        sync.Mutex
	Users     map[string]*models.User
	CreateErr error
	ListErr   error
	ListCalls int
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if token != "" && u.VerifyToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if token != "" && u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) SetEmailVerified(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.EmailVerified = true
		u.VerifyToken = ""
	}
	return nil
}

func (m *UserRepo) SetOnboardingComplete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.OnboardingComplete = true
	}
	return nil
}

func (m *UserRepo) SetProfileSetupComplete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.ProfileSetupComplete = true
	}
	return nil
}

func (m *UserRepo) SetRememberMe(ctx context.Context, id string, remember bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.RememberMe = remember
	}
	return nil
}

func (m *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.PasswordHash = passwordHash
		u.ResetToken = ""
	}
	return nil
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]models.User, 0, len(m.Users))
	for _, u := range m.Users {
		out = append(out, *u)
	}
	return out, nil
}

type ProfileRepo struct {
	mu       sync.Mutex
	Profiles map[string]*models.Profile
}

var _ repository.ProfileRepo = (*ProfileRepo)(nil)

func (m *ProfileRepo) UpsertProfile(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Profiles[p.UserID] = &cp
	return nil
}

func (m *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

type AssignmentRepo struct {
	mu          sync.Mutex
	Assignments map[string]*models.Assignment
	CreateErr   error
	Created     int
}

var _ repository.AssignmentRepo = (*AssignmentRepo)(nil)

func (m *AssignmentRepo) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.Assignments[a.ID] = &cp
	m.Created++
	return nil
}

func (m *AssignmentRepo) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *AssignmentRepo) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.Assignments[a.ID]; ok {
		stored.Title = a.Title
		stored.Description = a.Description
		stored.Subject = a.Subject
		stored.Deadline = a.Deadline
		stored.Budget = a.Budget
	}
	return nil
}

func (m *AssignmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, a := range m.Assignments {
		if a.CreatedBy == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *AssignmentRepo) ListAvailable(ctx context.Context, excludeOwnerID string) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, a := range m.Assignments {
		if a.CreatedBy != excludeOwnerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type BidRepo struct {
	mu        sync.Mutex
	Bids      map[string]*models.Bid
	CreateErr error
}

var _ repository.BidRepo = (*BidRepo)(nil)

func (m *BidRepo) CreateBid(ctx context.Context, b *models.Bid) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Bids {
		if existing.AssignmentID == b.AssignmentID && existing.BidderID == b.BidderID {
			return repository.ErrDuplicateBid
		}
	}
	cp := *b
	m.Bids[b.ID] = &cp
	return nil
}

func (m *BidRepo) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Bids[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *BidRepo) GetByAssignmentAndBidder(ctx context.Context, assignmentID, bidderID string) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Bids {
		if b.AssignmentID == assignmentID && b.BidderID == bidderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *BidRepo) UpdateBidAmount(ctx context.Context, id string, amount int, completionDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Bids[id]; ok {
		b.BidAmount = amount
		if completionDate != "" {
			b.CompletionDate = completionDate
		}
	}
	return nil
}

func (m *BidRepo) UpdateBidStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Bids[id]; ok {
		b.Status = status
	}
	return nil
}

func (m *BidRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Bid
	for _, b := range m.Bids {
		if b.AssignmentID == assignmentID {
			out = append(out, *b)
		}
	}
	return out, nil
}
