package auth

import (
	"context"
	"time"

	"investhub/internal/domain"
	"investhub/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type EmailCodeRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*repository.EmailCode, error)
	Save(ctx context.Context, row *repository.EmailCode) error
	IncrementAttempts(ctx context.Context, userID int64) (int, error)
	MarkUsed(ctx context.Context, userID int64, at time.Time) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
