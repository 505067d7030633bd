package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"investhub/internal/domain"
	"investhub/internal/repository"

	"gorm.io/gorm"
)

const maxCodeAttempts = 5

// RequestVerificationCode issues a fresh 6-digit code for the account and
// emails it. A per-user cooldown, anchored on the stored last_sent_at,
// throttles resends across process restarts.
func (s *Service) RequestVerificationCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	now := time.Now().UTC()

	row, err := s.codes.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		if now.Sub(row.LastSentAt) < s.resendCooldown {
			return ErrResendCooldown
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = &repository.EmailCode{UserID: user.ID}
	default:
		return fmt.Errorf("failed to load verification code: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	row.CodeHash = s.hashCode(code)
	row.Attempts = 0
	row.ResendCount++
	row.LastSentAt = now
	row.ExpiresAt = now.Add(s.codeTTL)
	row.UsedAt = nil

	if err := s.codes.Save(ctx, row); err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	if err := s.notifs.SendVerificationCode(ctx, user.Email, code); err != nil {
		log.Printf("auth: verification code email failed user_id=%d err=%v", user.ID, err)
	}
	return nil
}

// ConfirmVerificationCode checks a submitted code and marks the email as
// verified. Codes are single-use, expire after the configured TTL and lock
// after too many wrong attempts.
func (s *Service) ConfirmVerificationCode(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.EmailVerified {
		return nil, ErrEmailAlreadyVerified
	}

	row, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidVerificationCode
		}
		return nil, fmt.Errorf("failed to load verification code: %w", err)
	}

	now := time.Now().UTC()
	if row.UsedAt != nil || now.After(row.ExpiresAt) {
		return nil, ErrInvalidVerificationCode
	}
	if row.Attempts >= maxCodeAttempts {
		return nil, ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(row.CodeHash), []byte(s.hashCode(code))) != 1 {
		attempts, incErr := s.codes.IncrementAttempts(ctx, user.ID)
		if incErr != nil {
			return nil, fmt.Errorf("failed to record attempt: %w", incErr)
		}
		if attempts >= maxCodeAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidVerificationCode
	}

	if err := s.codes.MarkUsed(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark code used: %w", err)
	}

	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *Service) hashCode(code string) string {
	sum := sha256.Sum256([]byte(s.codePepper + ":" + code))
	return hex.EncodeToString(sum[:])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
