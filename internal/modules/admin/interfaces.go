package admin

import (
	"context"

	"investhub/internal/domain"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	DB() *gorm.DB
}

type VerificationRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Verification, error)
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*domain.Verification, error)
	Update(ctx context.Context, v *domain.Verification) error
	CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error)
	CountSubmitted(ctx context.Context) (int64, error)
}

// Notifier delivers review-decision emails, best-effort.
type Notifier interface {
	DecisionApproved(ctx context.Context, u *domain.User) error
	DecisionRejected(ctx context.Context, u *domain.User, reason string) error
}
