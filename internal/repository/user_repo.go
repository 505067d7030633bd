package repository

import (
	"context"
	"strings"
	"time"

	"investhub/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	Email           string     `gorm:"column:email;uniqueIndex"`
	PasswordHash    string     `gorm:"column:password_hash"`
	Name            string     `gorm:"column:name"`
	Phone           *string    `gorm:"column:phone"`
	Role            string     `gorm:"column:role"`
	InvestorType    string     `gorm:"column:investor_type"`
	IsVerified      bool       `gorm:"column:is_verified"`
	EmailVerified   bool       `gorm:"column:email_verified"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}

	investorType := domain.InvestorType(m.InvestorType)
	if investorType == "" {
		investorType = domain.InvestorNone
	}

	return &domain.User{
		ID:              m.ID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Name:            m.Name,
		Phone:           phone,
		Role:            domain.Role(m.Role),
		InvestorType:    investorType,
		IsVerified:      m.IsVerified,
		EmailVerified:   m.EmailVerified,
		EmailVerifiedAt: m.EmailVerifiedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}

	return userModel{
		ID:              u.ID,
		Email:           email,
		PasswordHash:    u.PasswordHash,
		Name:            u.Name,
		Phone:           phone,
		Role:            string(u.Role),
		InvestorType:    string(u.InvestorType),
		IsVerified:      u.IsVerified,
		EmailVerified:   u.EmailVerified,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Create inserts the user together with its empty verification sub-record.
// The two rows share a lifetime, so they are written in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		v := verificationModel{
			UserID: m.ID,
			Status: string(domain.VerificationPending),
		}
		return tx.Create(&v).Error
	})
	if err != nil {
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("role = ?", string(role)).
		Count(&count)
	return count, tx.Error
}

// Delete removes the user and its verification sub-record.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&verificationModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *UserRepository) DB() *gorm.DB { return r.db }
