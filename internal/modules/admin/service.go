package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"investhub/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	users   UserRepository
	records VerificationRepository
	notifs  Notifier
	baseURL string
}

func NewService(users UserRepository, records VerificationRepository, notifs Notifier, baseURL string) *Service {
	return &Service{
		users:   users,
		records: records,
		notifs:  notifs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetVerificationStatus applies a review decision to the target user's
// verification record and keeps users.is_verified in lockstep with it.
// Re-reviewing is allowed; every call restamps reviewedAt.
func (s *Service) SetVerificationStatus(ctx context.Context, targetID, reviewerID int64, req SetVerificationStatusRequest) (*VerificationSummary, error) {
	status := domain.VerificationStatus(req.Status)
	if status != domain.VerificationApproved && status != domain.VerificationRejected {
		return nil, ErrInvalidStatus
	}

	reason := strings.TrimSpace(req.RejectionReason)
	if status == domain.VerificationRejected && reason == "" {
		return nil, ErrReasonRequired
	}

	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserID(ctx, targetID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load verification: %w", err)
		}
		record = &domain.Verification{UserID: targetID, Status: domain.VerificationPending}
	}

	now := time.Now().UTC()
	record.Status = status
	record.ReviewedAt = &now
	record.ReviewedBy = &reviewerID
	if status == domain.VerificationApproved {
		// Approval invalidates any reason left over from an earlier rejection.
		record.RejectionReason = ""
	} else {
		record.RejectionReason = reason
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	user.IsVerified = status == domain.VerificationApproved
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// The user row was read before the verification write; re-check it so a
	// concurrent deletion does not go unnoticed.
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}

	s.notifyDecision(ctx, user, status, reason)

	return s.summaryOf(record), nil
}

// ListUsers is the back-office listing: conjunctive filters, free-text
// OR-search over identity and verification name fields, newest first.
func (s *Service) ListUsers(ctx context.Context, f UserListFilter) (*UserListResponse, error) {
	f.normalize()

	base := s.users.DB().WithContext(ctx).
		Table("users").
		Joins("LEFT JOIN verifications ON verifications.user_id = users.id")

	if f.Status != "" {
		base = base.Where("verifications.status = ?", f.Status)
	}
	if f.Role != "" {
		base = base.Where("users.role = ?", f.Role)
	}
	if f.ExcludeAdmin {
		base = base.Where("users.role <> ?", string(domain.RoleAdmin))
	}
	if f.OnlySubmitted {
		base = base.Where("verifications.submitted_at IS NOT NULL")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where(
			`LOWER(users.email) LIKE ? OR LOWER(users.name) LIKE ? OR users.phone LIKE ?
			OR LOWER(verifications.first_name) LIKE ? OR LOWER(verifications.surname) LIKE ?
			OR LOWER(verifications.company_name) LIKE ?`,
			like, like, "%"+strings.TrimSpace(f.Query)+"%", like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []listedUser
	err := base.Session(&gorm.Session{}).
		Select("users.*").
		Order("users.created_at DESC, users.id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	records, err := s.records.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load verifications: %w", err)
	}

	items := make([]UserListItem, len(rows))
	for i, r := range rows {
		items[i] = s.listItem(r.toDomain(), records[r.ID])
	}

	pages := int64(0)
	if total > 0 {
		pages = (total + int64(f.Limit) - 1) / int64(f.Limit)
	}

	return &UserListResponse{
		Items: items,
		Meta: ListMeta{
			Page:  f.Page,
			Limit: f.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserListItem, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}

	item := s.listItem(user, record)
	return &item, nil
}

// GetUserVerificationStatus is the admin view of one verification record,
// rejection reason included regardless of status.
func (s *Service) GetUserVerificationStatus(ctx context.Context, id int64) (*VerificationSummary, error) {
	if _, err := s.getUser(ctx, id); err != nil {
		return nil, err
	}

	record, err := s.records.GetByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = &domain.Verification{UserID: id, Status: domain.VerificationPending}
		} else {
			return nil, fmt.Errorf("failed to load verification: %w", err)
		}
	}

	return s.summaryOf(record), nil
}

// UpdateRole changes the target's role. Two guards protect admin access:
// an admin may not demote themselves, and the last remaining admin may not
// lose the role by any path.
func (s *Service) UpdateRole(ctx context.Context, targetID, actorID int64, newRole string) (*UserListItem, error) {
	role := domain.Role(newRole)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	leavingAdmin := user.Role == domain.RoleAdmin && role != domain.RoleAdmin
	if leavingAdmin {
		if targetID == actorID {
			return nil, ErrSelfDemotion
		}
		admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	item := s.listItem(user, nil)
	return &item, nil
}

// DeleteUser removes the account and its verification record. The same
// admin-access guards apply as for role changes.
func (s *Service) DeleteUser(ctx context.Context, targetID, actorID int64) error {
	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return err
	}

	if targetID == actorID {
		return ErrSelfDeletion
	}
	if user.Role == domain.RoleAdmin {
		admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Stats returns the dashboard counters in one call.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse

	if err := s.users.DB().WithContext(ctx).Table("users").Count(&out.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var err error
	if out.Submitted, err = s.records.CountSubmitted(ctx); err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	if out.Pending, err = s.records.CountByStatus(ctx, domain.VerificationPending); err != nil {
		return nil, fmt.Errorf("failed to count pending: %w", err)
	}
	if out.Approved, err = s.records.CountByStatus(ctx, domain.VerificationApproved); err != nil {
		return nil, fmt.Errorf("failed to count approved: %w", err)
	}
	if out.Rejected, err = s.records.CountByStatus(ctx, domain.VerificationRejected); err != nil {
		return nil, fmt.Errorf("failed to count rejected: %w", err)
	}
	out.VerifiedUsers = out.Approved

	return &out, nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) notifyDecision(ctx context.Context, user *domain.User, status domain.VerificationStatus, reason string) {
	if s.notifs == nil {
		return
	}
	var err error
	if status == domain.VerificationApproved {
		err = s.notifs.DecisionApproved(ctx, user)
	} else {
		err = s.notifs.DecisionRejected(ctx, user, reason)
	}
	if err != nil {
		log.Printf("admin: decision email failed user_id=%d status=%s err=%v", user.ID, status, err)
	}
}

func (s *Service) listItem(user *domain.User, record *domain.Verification) UserListItem {
	item := UserListItem{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Phone:         user.Phone,
		Role:          user.Role,
		InvestorType:  user.InvestorType,
		IsVerified:    user.IsVerified,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
	if record != nil {
		summary := s.summaryOf(record)
		summary.Personal = record.Personal
		summary.NextOfKin = record.NextOfKin
		summary.BankDetails = record.BankDetails
		summary.Corporate = record.Corporate
		item.Verification = summary
	}
	return item
}

func (s *Service) summaryOf(record *domain.Verification) *VerificationSummary {
	return &VerificationSummary{
		Status:            record.Status,
		DocumentsComplete: record.DocumentsComplete,
		SubmittedAt:       record.SubmittedAt,
		ReviewedAt:        record.ReviewedAt,
		ReviewedBy:        record.ReviewedBy,
		RejectionReason:   record.RejectionReason,
		Documents:         s.documentLinks(record),
	}
}

func (s *Service) documentLinks(record *domain.Verification) map[string]DocumentLink {
	paths := record.DocumentPaths()
	if len(paths) == 0 {
		return nil
	}
	links := make(map[string]DocumentLink, len(paths))
	for field, path := range paths {
		links[field] = DocumentLink{Path: path, URL: s.baseURL + path}
	}
	return links
}

// listedUser scans one joined row of the listing query. It mirrors the users
// table columns; verification data is attached separately.
type listedUser struct {
	ID            int64     `gorm:"column:id"`
	Email         string    `gorm:"column:email"`
	Name          string    `gorm:"column:name"`
	Phone         *string   `gorm:"column:phone"`
	Role          string    `gorm:"column:role"`
	InvestorType  string    `gorm:"column:investor_type"`
	IsVerified    bool      `gorm:"column:is_verified"`
	EmailVerified bool      `gorm:"column:email_verified"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (r listedUser) toDomain() *domain.User {
	var phone string
	if r.Phone != nil {
		phone = *r.Phone
	}
	return &domain.User{
		ID:            r.ID,
		Email:         r.Email,
		Name:          r.Name,
		Phone:         phone,
		Role:          domain.Role(r.Role),
		InvestorType:  domain.InvestorType(r.InvestorType),
		IsVerified:    r.IsVerified,
		EmailVerified: r.EmailVerified,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
