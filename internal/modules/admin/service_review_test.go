package admin

import (
	"context"
	"testing"

	"investhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	users map[int64]*domain.User
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *domain.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) DB() *gorm.DB { return nil }

type mockRecordRepo struct {
	records map[int64]*domain.Verification
}

func (m *mockRecordRepo) GetByUserID(_ context.Context, userID int64) (*domain.Verification, error) {
	v, ok := m.records[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockRecordRepo) GetByUserIDs(_ context.Context, ids []int64) (map[int64]*domain.Verification, error) {
	out := map[int64]*domain.Verification{}
	for _, id := range ids {
		if v, ok := m.records[id]; ok {
			cp := *v
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *mockRecordRepo) Update(_ context.Context, v *domain.Verification) error {
	cp := *v
	m.records[v.UserID] = &cp
	return nil
}

func (m *mockRecordRepo) CountByStatus(_ context.Context, status domain.VerificationStatus) (int64, error) {
	var n int64
	for _, v := range m.records {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockRecordRepo) CountSubmitted(_ context.Context) (int64, error) {
	var n int64
	for _, v := range m.records {
		if v.SubmittedAt != nil {
			n++
		}
	}
	return n, nil
}

type mockNotifier struct {
	approved []int64
	rejected []int64
	reasons  []string
}

func (m *mockNotifier) DecisionApproved(_ context.Context, u *domain.User) error {
	m.approved = append(m.approved, u.ID)
	return nil
}

func (m *mockNotifier) DecisionRejected(_ context.Context, u *domain.User, reason string) error {
	m.rejected = append(m.rejected, u.ID)
	m.reasons = append(m.reasons, reason)
	return nil
}

func newReviewFixture() (*Service, *mockUserRepo, *mockRecordRepo, *mockNotifier) {
	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Email: "root@example.com", Role: domain.RoleAdmin},
		2: {ID: 2, Email: "ada@example.com", Role: domain.RoleInvestor},
	}}
	records := &mockRecordRepo{records: map[int64]*domain.Verification{
		1: {ID: 10, UserID: 1, Status: domain.VerificationPending},
		2: {ID: 11, UserID: 2, Status: domain.VerificationPending},
	}}
	notifs := &mockNotifier{}
	return NewService(users, records, notifs, "http://localhost:8080"), users, records, notifs
}

func TestSetVerificationStatus_Approve(t *testing.T) {
	svc, users, records, notifs := newReviewFixture()

	summary, err := svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationApproved, summary.Status)
	require.NotNil(t, summary.ReviewedAt)
	require.NotNil(t, summary.ReviewedBy)
	assert.Equal(t, int64(1), *summary.ReviewedBy)

	assert.True(t, users.users[2].IsVerified)
	assert.Equal(t, domain.VerificationApproved, records.records[2].Status)
	assert.Equal(t, []int64{2}, notifs.approved)
}

func TestSetVerificationStatus_RejectRequiresReason(t *testing.T) {
	svc, _, _, _ := newReviewFixture()

	_, err := svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "rejected"})
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "rejected", RejectionReason: "   "})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestSetVerificationStatus_RejectThenApproveClearsReason(t *testing.T) {
	svc, users, records, notifs := newReviewFixture()

	_, err := svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "rejected", RejectionReason: "blurry id"})
	require.NoError(t, err)
	assert.Equal(t, "blurry id", records.records[2].RejectionReason)
	assert.False(t, users.users[2].IsVerified)
	assert.Equal(t, []string{"blurry id"}, notifs.reasons)

	summary, err := svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Empty(t, summary.RejectionReason)
	assert.Empty(t, records.records[2].RejectionReason)
	assert.True(t, users.users[2].IsVerified)
}

func TestSetVerificationStatus_InvalidInput(t *testing.T) {
	svc, _, _, _ := newReviewFixture()

	_, err := svc.SetVerificationStatus(context.Background(), 2, 1, SetVerificationStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetVerificationStatus(context.Background(), 99, 1, SetVerificationStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRole_Guards(t *testing.T) {
	svc, users, _, _ := newReviewFixture()

	// The acting admin cannot demote themselves.
	_, err := svc.UpdateRole(context.Background(), 1, 1, "investor")
	assert.ErrorIs(t, err, ErrSelfDemotion)

	// The only admin cannot be demoted by anyone.
	_, err = svc.UpdateRole(context.Background(), 1, 2, "investor")
	assert.ErrorIs(t, err, ErrLastAdmin)

	// With a second admin present demotion goes through.
	users.users[3] = &domain.User{ID: 3, Email: "second@example.com", Role: domain.RoleAdmin}
	item, err := svc.UpdateRole(context.Background(), 1, 3, "investor")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleInvestor, item.Role)
	assert.Equal(t, domain.RoleInvestor, users.users[1].Role)
}

func TestUpdateRole_Validation(t *testing.T) {
	svc, users, _, _ := newReviewFixture()

	_, err := svc.UpdateRole(context.Background(), 2, 1, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)

	item, err := svc.UpdateRole(context.Background(), 2, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, item.Role)
	assert.Equal(t, domain.RoleAdmin, users.users[2].Role)
}

func TestDeleteUser_Guards(t *testing.T) {
	svc, users, _, _ := newReviewFixture()

	err := svc.DeleteUser(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfDeletion)

	err = svc.DeleteUser(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrLastAdmin)

	err = svc.DeleteUser(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.DeleteUser(context.Background(), 2, 1)
	require.NoError(t, err)
	_, ok := users.users[2]
	assert.False(t, ok)
}

func TestGetUserVerificationStatus_IncludesReason(t *testing.T) {
	svc, _, records, _ := newReviewFixture()
	records.records[2].Status = domain.VerificationRejected
	records.records[2].RejectionReason = "expired document"

	summary, err := svc.GetUserVerificationStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "expired document", summary.RejectionReason)
}

func TestDocumentLinks_ExpandAbsoluteURL(t *testing.T) {
	svc, _, records, _ := newReviewFixture()
	records.records[2].Documents = &domain.PersonalDocuments{
		IDDocument: "/uploads/verification/1_id.pdf",
	}

	summary, err := svc.GetUserVerificationStatus(context.Background(), 2)
	require.NoError(t, err)

	link, ok := summary.Documents["idDocument"]
	require.True(t, ok)
	assert.Equal(t, "/uploads/verification/1_id.pdf", link.Path)
	assert.Equal(t, "http://localhost:8080/uploads/verification/1_id.pdf", link.URL)
}
