package verification

import (
	"context"
	"mime/multipart"

	"investhub/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type VerificationRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Verification, error)
	Update(ctx context.Context, v *domain.Verification) error
}

// DocumentStore persists one uploaded file and returns its web path.
type DocumentStore interface {
	Save(fieldName string, fileHeader *multipart.FileHeader) (string, error)
}

// Notifier sends the submission emails. Callers treat failures as
// best-effort and never fail the request over them.
type Notifier interface {
	SubmissionReceived(ctx context.Context, u *domain.User) error
	SubmissionAlert(ctx context.Context, u *domain.User) error
}
