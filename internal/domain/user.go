package domain

import "time"

type Role string

const (
	RoleInvestor Role = "investor"
	RoleStartup  Role = "startup"
	RoleAdmin    Role = "admin"
	RoleNone     Role = "none"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInvestor, RoleStartup, RoleAdmin, RoleNone:
		return true
	}
	return false
}

type InvestorType string

const (
	InvestorPersonal  InvestorType = "personal"
	InvestorCorporate InvestorType = "corporate"
	InvestorNone      InvestorType = "none"
)

type User struct {
	ID              int64        `json:"id"`
	Email           string       `json:"email" validate:"required,email"`
	PasswordHash    string       `json:"-"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone,omitempty"`
	Role            Role         `json:"role"`
	InvestorType    InvestorType `json:"investorType"`
	IsVerified      bool         `json:"isVerified"`
	EmailVerified   bool         `json:"emailVerified"`
	EmailVerifiedAt *time.Time   `json:"-"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
