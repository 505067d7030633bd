package notification

import (
	"context"
	"fmt"
	"log"

	"investhub/internal/domain"
)

// Sender delivers a single email. Implementations must not be relied on for
// request success: every call site treats delivery as best-effort.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleSender logs outgoing mail instead of delivering it. Used in dev and
// in tests.
type ConsoleSender struct {
	enabled bool
}

func NewConsoleSender(enabled bool) *ConsoleSender {
	return &ConsoleSender{enabled: enabled}
}

func (s *ConsoleSender) Send(_ context.Context, to, subject, body string) error {
	if s.enabled {
		log.Printf("[DEV-EMAIL] to=%s subject=%q body=%q", to, subject, body)
	}
	return nil
}

// Service composes and sends the platform's transactional emails. Failures
// are logged by the callers and never surfaced to the end user.
type Service struct {
	sender     Sender
	adminEmail string
}

func NewService(sender Sender, adminEmail string) *Service {
	return &Service{sender: sender, adminEmail: adminEmail}
}

func (s *Service) SendVerificationCode(ctx context.Context, email, code string) error {
	return s.sender.Send(ctx, email,
		"Confirm your email address",
		fmt.Sprintf("Your confirmation code is %s. It expires shortly.", code),
	)
}

func (s *Service) SubmissionReceived(ctx context.Context, u *domain.User) error {
	return s.sender.Send(ctx, u.Email,
		"We received your verification details",
		fmt.Sprintf("Hi %s, your identity verification details were received and are pending review. We will notify you once the review is complete.", displayName(u)),
	)
}

func (s *Service) SubmissionAlert(ctx context.Context, u *domain.User) error {
	if s.adminEmail == "" {
		return nil
	}
	return s.sender.Send(ctx, s.adminEmail,
		"New verification submission",
		fmt.Sprintf("User %s (id=%d, role=%s, type=%s) submitted verification details.", u.Email, u.ID, u.Role, u.InvestorType),
	)
}

func (s *Service) DecisionApproved(ctx context.Context, u *domain.User) error {
	return s.sender.Send(ctx, u.Email,
		"Your verification was approved",
		fmt.Sprintf("Hi %s, your identity verification has been approved. You now have full access to the platform.", displayName(u)),
	)
}

func (s *Service) DecisionRejected(ctx context.Context, u *domain.User, reason string) error {
	body := fmt.Sprintf("Hi %s, your identity verification was not approved.", displayName(u))
	if reason != "" {
		body += " Reason: " + reason
	}
	body += " You can correct the issue and submit again."
	return s.sender.Send(ctx, u.Email, "Your verification was rejected", body)
}

func displayName(u *domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
