package verification

import (
	"time"

	"investhub/internal/domain"
)

// SubmitPersonalRequest carries the text part of a personal verification
// submission. Validation is intentionally shape-level; compliance reviews the
// content by hand.
type SubmitPersonalRequest struct {
	Personal    PersonalInfoDTO `json:"personal" binding:"required"`
	NextOfKin   NextOfKinDTO    `json:"nextOfKin" binding:"required"`
	BankDetails BankDetailsDTO  `json:"bankDetails" binding:"required"`
}

type PersonalInfoDTO struct {
	FirstName          string `json:"firstName" binding:"required"`
	Surname            string `json:"surname" binding:"required"`
	Phone              string `json:"phone" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	AgeBracket         string `json:"ageBracket"`
	DateOfBirth        string `json:"dateOfBirth"`
	LocalGovernment    string `json:"localGovernment"`
	StateOfResidence   string `json:"stateOfResidence"`
	ResidentialAddress string `json:"residentialAddress" binding:"required"`
	NINNumber          string `json:"ninNumber"`
}

type NextOfKinDTO struct {
	FullName     string `json:"fullName" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

type BankDetailsDTO struct {
	AccountName   string `json:"accountName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	BankName      string `json:"bankName" binding:"required"`
	BVN           string `json:"bvn"`
	AccountType   string `json:"accountType"`
}

// SubmitCorporateRequest carries validate tags on top of the binding tags:
// gin stops at the top level, the validate pass dives into the signatory
// slice and nested structs.
type SubmitCorporateRequest struct {
	Company     CompanyDTO     `json:"company" binding:"required"`
	BankDetails BankDetailsDTO `json:"bankDetails" binding:"required"`
	Signatories []SignatoryDTO `json:"signatories" validate:"min=1,dive"`
	Referral    string         `json:"referral"`
}

type CompanyDTO struct {
	Name                string `json:"name" binding:"required" validate:"required"`
	RCNumber            string `json:"rcNumber" binding:"required" validate:"required"`
	DateOfIncorporation string `json:"dateOfIncorporation"`
	BusinessAddress     string `json:"businessAddress" binding:"required" validate:"required"`
	Email               string `json:"email" binding:"required,email" validate:"required,email"`
	Phone               string `json:"phone" binding:"required" validate:"required"`
	Website             string `json:"website"`
}

type SignatoryDTO struct {
	FullName string `json:"fullName" validate:"required"`
	Position string `json:"position" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	BVN      string `json:"bvn"`
}

// StatusResponse is the investor-facing view of their own verification.
// RejectionReason is present only while the record is rejected.
type StatusResponse struct {
	Status            domain.VerificationStatus `json:"status"`
	IsVerified        bool                      `json:"isVerified"`
	DocumentsComplete bool                      `json:"documentsComplete"`
	SubmittedAt       *time.Time                `json:"submittedAt,omitempty"`
	ReviewedAt        *time.Time                `json:"reviewedAt,omitempty"`
	RejectionReason   string                    `json:"rejectionReason,omitempty"`
}

// DocumentsResponse reports which field names were stored in an upload call.
type DocumentsResponse struct {
	Stored            []string `json:"stored"`
	DocumentsComplete bool     `json:"documentsComplete"`
}

func (d PersonalInfoDTO) toDomain() *domain.PersonalInfo {
	return &domain.PersonalInfo{
		FirstName:          d.FirstName,
		Surname:            d.Surname,
		Phone:              d.Phone,
		Email:              d.Email,
		AgeBracket:         d.AgeBracket,
		DateOfBirth:        d.DateOfBirth,
		LocalGovernment:    d.LocalGovernment,
		StateOfResidence:   d.StateOfResidence,
		ResidentialAddress: d.ResidentialAddress,
		NINNumber:          d.NINNumber,
	}
}

func (d NextOfKinDTO) toDomain() *domain.NextOfKin {
	return &domain.NextOfKin{
		FullName:     d.FullName,
		Relationship: d.Relationship,
		Phone:        d.Phone,
		Email:        d.Email,
		Address:      d.Address,
	}
}

func (d BankDetailsDTO) toDomain() *domain.BankDetails {
	return &domain.BankDetails{
		AccountName:   d.AccountName,
		AccountNumber: d.AccountNumber,
		BankName:      d.BankName,
		BVN:           d.BVN,
		AccountType:   d.AccountType,
	}
}

func (d CompanyDTO) toDomain() *domain.Company {
	return &domain.Company{
		Name:                d.Name,
		RCNumber:            d.RCNumber,
		DateOfIncorporation: d.DateOfIncorporation,
		BusinessAddress:     d.BusinessAddress,
		Email:               d.Email,
		Phone:               d.Phone,
		Website:             d.Website,
	}
}
