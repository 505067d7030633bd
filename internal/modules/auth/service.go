package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"investhub/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users  UserRepository
	codes  EmailCodeRepository
	tokens TokenIssuer
	notifs Notifier

	codePepper     string
	codeTTL        time.Duration
	resendCooldown time.Duration
}

// ServiceConfig carries the email-verification tuning knobs.
type ServiceConfig struct {
	CodePepper     string
	CodeTTL        time.Duration
	ResendCooldown time.Duration
}

func NewService(users UserRepository, codes EmailCodeRepository, tokens TokenIssuer, notifs Notifier, cfg ServiceConfig) *Service {
	return &Service{
		users:          users,
		codes:          codes,
		tokens:         tokens,
		notifs:         notifs,
		codePepper:     cfg.CodePepper,
		codeTTL:        cfg.CodeTTL,
		resendCooldown: cfg.ResendCooldown,
	}
}

// Register creates an account in the investor or startup role. Admins are
// never created through this path.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := domain.Role(req.Role)
	if role != domain.RoleInvestor && role != domain.RoleStartup {
		return nil, fmt.Errorf("unsupported role %q", req.Role)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		InvestorType: domain.InvestorNone,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// isUniqueViolation recognizes a duplicate-key insert on both backends:
// SQLSTATE 23505 from postgres, constraint text from sqlite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
