package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// EmailCode tracks the current email verification code for a user, including
// the resend cooldown anchor. One row per user.
type EmailCode struct {
	UserID      int64      `gorm:"column:user_id;primaryKey"`
	CodeHash    string     `gorm:"column:code_hash"`
	Attempts    int        `gorm:"column:attempts"`
	ResendCount int        `gorm:"column:resend_count"`
	LastSentAt  time.Time  `gorm:"column:last_sent_at"`
	ExpiresAt   time.Time  `gorm:"column:expires_at"`
	UsedAt      *time.Time `gorm:"column:used_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (EmailCode) TableName() string { return "email_verification_codes" }

type EmailCodeRepository struct {
	db *gorm.DB
}

func NewEmailCodeRepository(db *gorm.DB) *EmailCodeRepository {
	return &EmailCodeRepository{db: db}
}

func (r *EmailCodeRepository) GetByUserID(ctx context.Context, userID int64) (*EmailCode, error) {
	var row EmailCode
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &row, nil
}

func (r *EmailCodeRepository) Save(ctx context.Context, row *EmailCode) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *EmailCodeRepository) IncrementAttempts(ctx context.Context, userID int64) (int, error) {
	var row EmailCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&row).Error; err != nil {
			return err
		}
		row.Attempts++
		return tx.Save(&row).Error
	})
	return row.Attempts, err
}

func (r *EmailCodeRepository) MarkUsed(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&EmailCode{}).
		Where("user_id = ?", userID).
		Update("used_at", at).Error
}
