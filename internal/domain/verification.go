package domain

import (
	"fmt"
	"time"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// PersonalInfo holds the identity fields of a personal investor submission.
type PersonalInfo struct {
	FirstName          string `json:"firstName"`
	Surname            string `json:"surname"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	AgeBracket         string `json:"ageBracket"`
	DateOfBirth        string `json:"dateOfBirth"`
	LocalGovernment    string `json:"localGovernment"`
	StateOfResidence   string `json:"stateOfResidence"`
	ResidentialAddress string `json:"residentialAddress"`
	NINNumber          string `json:"ninNumber"`
}

type NextOfKin struct {
	FullName     string `json:"fullName"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	BVN           string `json:"bvn,omitempty"`
	AccountType   string `json:"accountType"`
}

// PersonalDocuments stores root-relative web paths to the three required
// personal verification documents.
type PersonalDocuments struct {
	IDDocument    string `json:"idDocument"`
	PassportPhoto string `json:"passportPhoto"`
	UtilityBill   string `json:"utilityBill"`
}

func (d PersonalDocuments) Complete() bool {
	return d.IDDocument != "" && d.PassportPhoto != "" && d.UtilityBill != ""
}

type Company struct {
	Name                string `json:"name"`
	RCNumber            string `json:"rcNumber"`
	DateOfIncorporation string `json:"dateOfIncorporation"`
	BusinessAddress     string `json:"businessAddress"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Website             string `json:"website,omitempty"`
	Logo                string `json:"logo,omitempty"`
}

type CorporateDocuments struct {
	CertificateOfIncorporation string `json:"certificateOfIncorporation,omitempty"`
	MemorandumAndArticles      string `json:"memorandumAndArticles,omitempty"`
	UtilityBill                string `json:"utilityBill,omitempty"`
	TINCertificate             string `json:"tinCertificate,omitempty"`
}

// Signatory is an authorized corporate officer. Entries created purely by a
// document upload carry only the document fields until a text submission
// fills in the rest.
type Signatory struct {
	FullName   string `json:"fullName,omitempty"`
	Position   string `json:"position,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	BVN        string `json:"bvn,omitempty"`
	IDDocument string `json:"idDocument,omitempty"`
	Signature  string `json:"signature,omitempty"`
}

type Corporate struct {
	Company     *Company            `json:"company,omitempty"`
	BankDetails *BankDetails        `json:"bankDetails,omitempty"`
	Documents   *CorporateDocuments `json:"documents,omitempty"`
	Signatories []Signatory         `json:"signatories,omitempty"`
	Referral    string              `json:"referral,omitempty"`
}

// DocumentsComplete reports whether the mandatory corporate document set is
// present: certificate of incorporation, utility bill, and an identity
// document plus signature for every signatory.
func (c *Corporate) DocumentsComplete() bool {
	if c == nil || c.Documents == nil || len(c.Signatories) == 0 {
		return false
	}
	if c.Documents.CertificateOfIncorporation == "" || c.Documents.UtilityBill == "" {
		return false
	}
	for _, sg := range c.Signatories {
		if sg.IDDocument == "" || sg.Signature == "" {
			return false
		}
	}
	return true
}

// Verification is the KYC sub-record attached to a user. It is created empty
// together with the user and lives exactly as long as the user does.
//
// SubmittedAt distinguishes "has ever submitted" from "never submitted"
// independent of Status (which defaults to pending). ReviewedAt/ReviewedBy
// are written only by the review flow.
type Verification struct {
	ID     int64 `json:"-"`
	UserID int64 `json:"-"`

	Personal    *PersonalInfo      `json:"personal,omitempty"`
	NextOfKin   *NextOfKin         `json:"nextOfKin,omitempty"`
	BankDetails *BankDetails       `json:"bankDetails,omitempty"`
	Documents   *PersonalDocuments `json:"documents,omitempty"`
	Corporate   *Corporate         `json:"corporate,omitempty"`

	// Denormalized for the listing layer's free-text search.
	FirstName   string `json:"-"`
	Surname     string `json:"-"`
	CompanyName string `json:"-"`

	Status            VerificationStatus `json:"status"`
	RejectionReason   string             `json:"rejectionReason,omitempty"`
	DocumentsComplete bool               `json:"documentsComplete"`
	SubmittedAt       *time.Time         `json:"submittedAt,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewedAt,omitempty"`
	ReviewedBy        *int64             `json:"reviewedBy,omitempty"`
	CreatedAt         time.Time          `json:"-"`
	UpdatedAt         time.Time          `json:"-"`
}

// DocumentPaths returns every stored document path on the record keyed by
// its upload field name.
func (v *Verification) DocumentPaths() map[string]string {
	paths := map[string]string{}
	if v.Documents != nil {
		put(paths, "idDocument", v.Documents.IDDocument)
		put(paths, "passportPhoto", v.Documents.PassportPhoto)
		put(paths, "utilityBill", v.Documents.UtilityBill)
	}
	if c := v.Corporate; c != nil {
		if c.Company != nil {
			put(paths, "companyLogo", c.Company.Logo)
		}
		if c.Documents != nil {
			put(paths, "certificateOfIncorporation", c.Documents.CertificateOfIncorporation)
			put(paths, "memorandumAndArticles", c.Documents.MemorandumAndArticles)
			put(paths, "utilityBill", c.Documents.UtilityBill)
			put(paths, "tinCertificate", c.Documents.TINCertificate)
		}
		for i, sg := range c.Signatories {
			put(paths, signatoryKey(i, "idDocument"), sg.IDDocument)
			put(paths, signatoryKey(i, "signature"), sg.Signature)
		}
	}
	return paths
}

func put(m map[string]string, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func signatoryKey(i int, kind string) string {
	return fmt.Sprintf("signatories[%d][%s]", i, kind)
}
