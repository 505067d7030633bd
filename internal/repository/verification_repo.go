package repository

import (
	"context"
	"time"

	"investhub/internal/domain"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

type verificationModel struct {
	ID     int64 `gorm:"column:id;primaryKey"`
	UserID int64 `gorm:"column:user_id;uniqueIndex"`

	Personal    *domain.PersonalInfo      `gorm:"column:personal;serializer:json"`
	NextOfKin   *domain.NextOfKin         `gorm:"column:next_of_kin;serializer:json"`
	BankDetails *domain.BankDetails       `gorm:"column:bank_details;serializer:json"`
	Documents   *domain.PersonalDocuments `gorm:"column:documents;serializer:json"`
	Corporate   *domain.Corporate         `gorm:"column:corporate;serializer:json"`

	// Scalar copies of the searchable name fields, maintained on submission.
	FirstName   string `gorm:"column:first_name"`
	Surname     string `gorm:"column:surname"`
	CompanyName string `gorm:"column:company_name"`

	Status            string     `gorm:"column:status"`
	RejectionReason   string     `gorm:"column:rejection_reason"`
	DocumentsComplete bool       `gorm:"column:documents_complete"`
	SubmittedAt       *time.Time `gorm:"column:submitted_at"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy        *int64     `gorm:"column:reviewed_by"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (verificationModel) TableName() string { return "verifications" }

func toDomainVerification(m verificationModel) *domain.Verification {
	status := domain.VerificationStatus(m.Status)
	if status == "" {
		status = domain.VerificationPending
	}

	return &domain.Verification{
		ID:                m.ID,
		UserID:            m.UserID,
		Personal:          m.Personal,
		NextOfKin:         m.NextOfKin,
		BankDetails:       m.BankDetails,
		Documents:         m.Documents,
		Corporate:         m.Corporate,
		FirstName:         m.FirstName,
		Surname:           m.Surname,
		CompanyName:       m.CompanyName,
		Status:            status,
		RejectionReason:   m.RejectionReason,
		DocumentsComplete: m.DocumentsComplete,
		SubmittedAt:       m.SubmittedAt,
		ReviewedAt:        m.ReviewedAt,
		ReviewedBy:        m.ReviewedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toVerificationModel(v *domain.Verification) verificationModel {
	return verificationModel{
		ID:                v.ID,
		UserID:            v.UserID,
		Personal:          v.Personal,
		NextOfKin:         v.NextOfKin,
		BankDetails:       v.BankDetails,
		Documents:         v.Documents,
		Corporate:         v.Corporate,
		FirstName:         v.FirstName,
		Surname:           v.Surname,
		CompanyName:       v.CompanyName,
		Status:            string(v.Status),
		RejectionReason:   v.RejectionReason,
		DocumentsComplete: v.DocumentsComplete,
		SubmittedAt:       v.SubmittedAt,
		ReviewedAt:        v.ReviewedAt,
		ReviewedBy:        v.ReviewedBy,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func (r *VerificationRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Verification, error) {
	var m verificationModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainVerification(m), nil
}

func (r *VerificationRepository) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*domain.Verification, error) {
	if len(userIDs) == 0 {
		return map[int64]*domain.Verification{}, nil
	}

	var rows []verificationModel
	tx := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[int64]*domain.Verification, len(rows))
	for _, m := range rows {
		out[m.UserID] = toDomainVerification(m)
	}
	return out, nil
}

// Update persists the whole sub-record in one write. Callers mutate the
// domain value and save once, so a partially applied document batch is never
// visible in the store.
func (r *VerificationRepository) Update(ctx context.Context, v *domain.Verification) error {
	m := toVerificationModel(v)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*v = *toDomainVerification(m)
	return nil
}

func (r *VerificationRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&verificationModel{}).
		Where("status = ?", string(status)).
		Count(&count)
	return count, tx.Error
}

func (r *VerificationRepository) CountSubmitted(ctx context.Context) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&verificationModel{}).
		Where("submitted_at IS NOT NULL").
		Count(&count)
	return count, tx.Error
}

func (r *VerificationRepository) DB() *gorm.DB { return r.db }
