package repository

import (
	"context"
	"errors"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrDuplicateBid is returned by BidRepo.Create when a bid by the same bidder
// on the same assignment already exists. The constraint is enforced by the
// store itself, so two racing submissions cannot both insert.
var ErrDuplicateBid = errors.New("bid already exists for this assignment and bidder")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerifyToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	SetEmailVerified(ctx context.Context, id string) error
	SetOnboardingComplete(ctx context.Context, id string) error
	SetProfileSetupComplete(ctx context.Context, id string) error
	SetRememberMe(ctx context.Context, id string, remember bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type ProfileRepo interface {
	UpsertProfile(ctx context.Context, p *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type AssignmentRepo interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, a *models.Assignment) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
	ListAvailable(ctx context.Context, excludeOwnerID string) ([]models.Assignment, error)
}

type BidRepo interface {
	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id string) (*models.Bid, error)
	GetByAssignmentAndBidder(ctx context.Context, assignmentID, bidderID string) (*models.Bid, error)
	UpdateBidAmount(ctx context.Context, id string, amount int, completionDate string) error
	UpdateBidStatus(ctx context.Context, id, status string) error
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Bid, error)
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, name, description, schemaJSON string) (int64, error)
	GetSchemaByName(ctx context.Context, name string) (*models.Schema, error)
	ListSchemas(ctx context.Context) ([]models.Schema, error)
}
