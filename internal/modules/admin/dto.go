package admin

import (
	"time"

	"investhub/internal/domain"
)

// UserListFilter is bound from the listing query string. Boolean flags accept
// the usual gin truthy forms ("true"/"1").
type UserListFilter struct {
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
	Status        string `form:"status"`
	Query         string `form:"q"`
	Role          string `form:"role"`
	ExcludeAdmin  bool   `form:"excludeAdmin"`
	OnlySubmitted bool   `form:"onlySubmitted"`
}

func (f *UserListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// DocumentLink exposes a stored document both as the stored root-relative
// path and as an absolute URL built from the public base URL.
type DocumentLink struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type VerificationSummary struct {
	Status            domain.VerificationStatus `json:"status"`
	DocumentsComplete bool                      `json:"documentsComplete"`
	SubmittedAt       *time.Time                `json:"submittedAt,omitempty"`
	ReviewedAt        *time.Time                `json:"reviewedAt,omitempty"`
	ReviewedBy        *int64                    `json:"reviewedBy,omitempty"`
	RejectionReason   string                    `json:"rejectionReason,omitempty"`

	Personal    *domain.PersonalInfo    `json:"personal,omitempty"`
	NextOfKin   *domain.NextOfKin       `json:"nextOfKin,omitempty"`
	BankDetails *domain.BankDetails     `json:"bankDetails,omitempty"`
	Corporate   *domain.Corporate       `json:"corporate,omitempty"`
	Documents   map[string]DocumentLink `json:"documents,omitempty"`
}

// UserListItem is the admin view of one user. Password material never
// appears here.
type UserListItem struct {
	ID            int64                `json:"id"`
	Email         string               `json:"email"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone,omitempty"`
	Role          domain.Role          `json:"role"`
	InvestorType  domain.InvestorType  `json:"investorType"`
	IsVerified    bool                 `json:"isVerified"`
	EmailVerified bool                 `json:"emailVerified"`
	CreatedAt     time.Time            `json:"createdAt"`
	Verification  *VerificationSummary `json:"verification,omitempty"`
}

type ListMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type UserListResponse struct {
	Items []UserListItem `json:"items"`
	Meta  ListMeta       `json:"meta"`
}

type SetVerificationStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// StatsResponse backs the admin dashboard counters.
type StatsResponse struct {
	TotalUsers    int64 `json:"totalUsers"`
	Submitted     int64 `json:"submitted"`
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
	VerifiedUsers int64 `json:"verifiedUsers"`
}
