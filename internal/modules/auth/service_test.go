package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"investhub/internal/domain"
	"investhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUsers struct {
	users  map[int64]*domain.User
	nextID int64
}

func (m *mockUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return errors.New("UNIQUE constraint failed: users.email")
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUsers) Update(_ context.Context, u *domain.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type mockCodes struct {
	rows map[int64]*repository.EmailCode
}

func (m *mockCodes) GetByUserID(_ context.Context, userID int64) (*repository.EmailCode, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *mockCodes) Save(_ context.Context, row *repository.EmailCode) error {
	cp := *row
	m.rows[row.UserID] = &cp
	return nil
}

func (m *mockCodes) IncrementAttempts(_ context.Context, userID int64) (int, error) {
	row, ok := m.rows[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	row.Attempts++
	return row.Attempts, nil
}

func (m *mockCodes) MarkUsed(_ context.Context, userID int64, at time.Time) error {
	if row, ok := m.rows[userID]; ok {
		row.UsedAt = &at
	}
	return nil
}

type mockTokens struct{}

func (mockTokens) GenerateToken(userID int64, _ string) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

type mockMailer struct {
	codes []string
	to    []string
}

func (m *mockMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.to = append(m.to, email)
	m.codes = append(m.codes, code)
	return nil
}

func newAuthFixture() (*Service, *mockUsers, *mockCodes, *mockMailer) {
	users := &mockUsers{users: map[int64]*domain.User{}}
	codes := &mockCodes{rows: map[int64]*repository.EmailCode{}}
	mailer := &mockMailer{}
	svc := NewService(users, codes, mockTokens{}, mailer, ServiceConfig{
		CodePepper:     "test-pepper",
		CodeTTL:        5 * time.Minute,
		ResendCooldown: time.Minute,
	})
	return svc, users, codes, mailer
}

func register(t *testing.T, svc *Service) *domain.User {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Ada@Example.com",
		Password: "correct horse",
		Name:     "Ada Lovelace",
		Role:     "investor",
	})
	require.NoError(t, err)
	return resp.User
}

func TestRegister_NormalizesAndIssuesToken(t *testing.T) {
	svc, users, _, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Ada@Example.com",
		Password: "correct horse",
		Name:     "  Ada Lovelace  ",
		Role:     "investor",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada Lovelace", resp.User.Name)
	assert.Equal(t, domain.RoleInvestor, resp.User.Role)
	assert.Equal(t, domain.InvestorNone, resp.User.InvestorType)
	assert.NotEmpty(t, resp.Token)

	stored := users.users[resp.User.ID]
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Password: "another pass",
		Name:     "Imposter",
		Role:     "startup",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	u := register(t, svc)

	// Unverified email cannot log in yet.
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	users.users[u.ID].EmailVerified = true

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("token-%d", u.ID), resp.Token)
}

func TestRequestVerificationCode_Cooldown(t *testing.T) {
	svc, _, codes, mailer := newAuthFixture()
	u := register(t, svc)

	require.NoError(t, svc.RequestVerificationCode(context.Background(), u.Email))
	require.Len(t, mailer.codes, 1)
	assert.Len(t, mailer.codes[0], 6)

	err := svc.RequestVerificationCode(context.Background(), u.Email)
	assert.ErrorIs(t, err, ErrResendCooldown)

	// Past the cooldown a new code goes out and resets attempts.
	codes.rows[u.ID].LastSentAt = time.Now().UTC().Add(-2 * time.Minute)
	codes.rows[u.ID].Attempts = 3
	require.NoError(t, svc.RequestVerificationCode(context.Background(), u.Email))
	assert.Len(t, mailer.codes, 2)
	assert.Equal(t, 0, codes.rows[u.ID].Attempts)
	assert.Equal(t, 2, codes.rows[u.ID].ResendCount)
}

func TestConfirmVerificationCode(t *testing.T) {
	svc, users, _, mailer := newAuthFixture()
	u := register(t, svc)
	require.NoError(t, svc.RequestVerificationCode(context.Background(), u.Email))
	code := mailer.codes[0]

	_, err := svc.ConfirmVerificationCode(context.Background(), u.Email, "000000")
	if code == "000000" {
		t.Skip("generated code collided with the test's wrong guess")
	}
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	got, err := svc.ConfirmVerificationCode(context.Background(), u.Email, code)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	require.NotNil(t, got.EmailVerifiedAt)
	assert.True(t, users.users[u.ID].EmailVerified)

	// The code is single-use; the account reports already verified now.
	_, err = svc.ConfirmVerificationCode(context.Background(), u.Email, code)
	assert.ErrorIs(t, err, ErrEmailAlreadyVerified)
}

func TestConfirmVerificationCode_Expired(t *testing.T) {
	svc, _, codes, _ := newAuthFixture()
	u := register(t, svc)
	require.NoError(t, svc.RequestVerificationCode(context.Background(), u.Email))

	codes.rows[u.ID].ExpiresAt = time.Now().UTC().Add(-time.Second)

	_, err := svc.ConfirmVerificationCode(context.Background(), u.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestConfirmVerificationCode_AttemptLockout(t *testing.T) {
	svc, _, codes, mailer := newAuthFixture()
	u := register(t, svc)
	require.NoError(t, svc.RequestVerificationCode(context.Background(), u.Email))
	code := mailer.codes[0]
	wrong := "999999"
	if wrong == code {
		wrong = "999998"
	}

	var lastErr error
	for i := 0; i < maxCodeAttempts+1; i++ {
		_, lastErr = svc.ConfirmVerificationCode(context.Background(), u.Email, wrong)
	}
	assert.ErrorIs(t, lastErr, ErrTooManyAttempts)

	// Even the right code is refused once locked.
	_, err := svc.ConfirmVerificationCode(context.Background(), u.Email, code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.GreaterOrEqual(t, codes.rows[u.ID].Attempts, maxCodeAttempts)
}
