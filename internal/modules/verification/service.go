package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"regexp"
	"strconv"
	"time"

	"investhub/internal/domain"
	pkgvalidator "investhub/internal/pkg/validator"

	"gorm.io/gorm"
)

// personalDocumentFields are the exact multipart field names a personal
// document submission must carry. All three arrive in one call or none are
// stored.
var personalDocumentFields = []string{"idDocument", "passportPhoto", "utilityBill"}

// signatoryFieldRe matches the indexed corporate upload tags, e.g.
// signatories[0][idDocument] and signatories[2][signature].
var signatoryFieldRe = regexp.MustCompile(`^signatories\[(\d+)\]\[(idDocument|signature)\]$`)

type Service struct {
	users     UserRepository
	records   VerificationRepository
	documents DocumentStore
	notifs    Notifier
}

func NewService(users UserRepository, records VerificationRepository, documents DocumentStore, notifs Notifier) *Service {
	return &Service{users: users, records: records, documents: documents, notifs: notifs}
}

// SubmitPersonal replaces the text part of a personal submission wholesale
// and moves the record back to pending. Previously uploaded documents are
// left untouched, so a rejected applicant can fix text fields without
// re-uploading files.
func (s *Service) SubmitPersonal(ctx context.Context, userID int64, req SubmitPersonalRequest) (*StatusResponse, error) {
	user, record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	record.Personal = req.Personal.toDomain()
	record.NextOfKin = req.NextOfKin.toDomain()
	record.BankDetails = req.BankDetails.toDomain()
	record.FirstName = req.Personal.FirstName
	record.Surname = req.Personal.Surname

	s.markSubmitted(record)

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	// Intake never touches IsVerified; only the review flow does.
	if user.InvestorType != domain.InvestorPersonal {
		user.InvestorType = domain.InvestorPersonal
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update investor type: %w", err)
		}
	}

	s.notifySubmission(ctx, user)

	return statusOf(user, record), nil
}

// SubmitPersonalDocuments stores the three required personal documents. The
// record is written once, after every file is on disk, so readers never see
// a partial document set.
func (s *Service) SubmitPersonalDocuments(ctx context.Context, userID int64, files map[string]*multipart.FileHeader) (*DocumentsResponse, error) {
	for _, field := range personalDocumentFields {
		if files[field] == nil {
			return nil, ErrMissingDocuments
		}
	}

	_, record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if record.Documents == nil {
		record.Documents = &domain.PersonalDocuments{}
	}

	stored := make([]string, 0, len(personalDocumentFields))
	for _, field := range personalDocumentFields {
		path, err := s.documents.Save(field, files[field])
		if err != nil {
			return nil, err
		}
		switch field {
		case "idDocument":
			record.Documents.IDDocument = path
		case "passportPhoto":
			record.Documents.PassportPhoto = path
		case "utilityBill":
			record.Documents.UtilityBill = path
		}
		stored = append(stored, field)
	}

	record.DocumentsComplete = record.Documents.Complete()

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification documents: %w", err)
	}

	return &DocumentsResponse{Stored: stored, DocumentsComplete: record.DocumentsComplete}, nil
}

// SubmitCorporate replaces the text part of a corporate submission. Document
// paths already stored on the record, including per-signatory uploads, are
// carried over by index.
func (s *Service) SubmitCorporate(ctx context.Context, userID int64, req SubmitCorporateRequest) (*StatusResponse, error) {
	if req.Company.Name == "" {
		return nil, ErrCompanyRequired
	}
	if req.BankDetails.AccountNumber == "" || req.BankDetails.BankName == "" {
		return nil, ErrBankDetailsRequired
	}
	if len(req.Signatories) == 0 {
		return nil, ErrSignatoriesRequired
	}
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	user, record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	prev := record.Corporate
	corp := &domain.Corporate{
		Company:     req.Company.toDomain(),
		BankDetails: req.BankDetails.toDomain(),
		Referral:    req.Referral,
	}
	if prev != nil {
		corp.Documents = prev.Documents
		if prev.Company != nil {
			corp.Company.Logo = prev.Company.Logo
		}
	}
	if corp.Documents == nil {
		corp.Documents = &domain.CorporateDocuments{}
	}

	corp.Signatories = make([]domain.Signatory, len(req.Signatories))
	for i, sg := range req.Signatories {
		corp.Signatories[i] = domain.Signatory{
			FullName: sg.FullName,
			Position: sg.Position,
			Email:    sg.Email,
			Phone:    sg.Phone,
			BVN:      sg.BVN,
		}
		if prev != nil && i < len(prev.Signatories) {
			corp.Signatories[i].IDDocument = prev.Signatories[i].IDDocument
			corp.Signatories[i].Signature = prev.Signatories[i].Signature
		}
	}

	record.Corporate = corp
	record.CompanyName = req.Company.Name
	record.DocumentsComplete = corp.DocumentsComplete()

	s.markSubmitted(record)

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	if user.InvestorType != domain.InvestorCorporate {
		user.InvestorType = domain.InvestorCorporate
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update investor type: %w", err)
		}
	}

	s.notifySubmission(ctx, user)

	return statusOf(user, record), nil
}

// SubmitCorporateDocuments routes a batch of uploads onto the corporate
// record by multipart field tag. Company-level tags land on the document
// set; signatories[<i>][idDocument|signature] land on the signatory at index
// i, growing the slice with placeholders when the text submission has not
// arrived yet. Unknown tags are logged and skipped.
func (s *Service) SubmitCorporateDocuments(ctx context.Context, userID int64, form *multipart.Form) (*DocumentsResponse, error) {
	if form == nil || len(form.File) == 0 {
		return nil, ErrNoFiles
	}

	_, record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if record.Corporate == nil {
		record.Corporate = &domain.Corporate{}
	}
	corp := record.Corporate
	if corp.Documents == nil {
		corp.Documents = &domain.CorporateDocuments{}
	}

	var stored []string
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}

		assign := corporateTarget(corp, field)
		if assign == nil {
			log.Printf("verification: skipping unknown upload field %q user_id=%d", field, userID)
			continue
		}

		path, saveErr := s.documents.Save(field, headers[0])
		if saveErr != nil {
			return nil, saveErr
		}
		assign(path)
		stored = append(stored, field)
	}

	if len(stored) == 0 {
		return nil, ErrNoFiles
	}

	record.DocumentsComplete = corp.DocumentsComplete()

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save verification documents: %w", err)
	}

	return &DocumentsResponse{Stored: stored, DocumentsComplete: record.DocumentsComplete}, nil
}

// Status returns the caller's own verification state.
func (s *Service) Status(ctx context.Context, userID int64) (*StatusResponse, error) {
	user, record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return statusOf(user, record), nil
}

// corporateTarget resolves an upload field tag to a setter on the corporate
// record, or nil when the tag is not recognized. Signatory tags grow the
// slice with placeholders so the addressed index exists.
func corporateTarget(corp *domain.Corporate, field string) func(path string) {
	switch field {
	case "companyLogo":
		return func(path string) {
			if corp.Company == nil {
				corp.Company = &domain.Company{}
			}
			corp.Company.Logo = path
		}
	case "certificateOfIncorporation":
		return func(path string) { corp.Documents.CertificateOfIncorporation = path }
	case "memorandumAndArticles":
		return func(path string) { corp.Documents.MemorandumAndArticles = path }
	case "utilityBill":
		return func(path string) { corp.Documents.UtilityBill = path }
	case "tinCertificate":
		return func(path string) { corp.Documents.TINCertificate = path }
	}

	m := signatoryFieldRe.FindStringSubmatch(field)
	if m == nil {
		return nil
	}
	idx, _ := strconv.Atoi(m[1])
	kind := m[2]
	return func(path string) {
		for len(corp.Signatories) <= idx {
			corp.Signatories = append(corp.Signatories, domain.Signatory{})
		}
		if kind == "idDocument" {
			corp.Signatories[idx].IDDocument = path
		} else {
			corp.Signatories[idx].Signature = path
		}
	}
}

func (s *Service) load(ctx context.Context, userID int64) (*domain.User, *domain.Verification, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	record, err := s.records.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The record is created with the user; a miss means legacy data.
			record = &domain.Verification{UserID: userID, Status: domain.VerificationPending}
			return user, record, nil
		}
		return nil, nil, fmt.Errorf("failed to load verification: %w", err)
	}

	return user, record, nil
}

// markSubmitted applies the shared submission stamp: back to pending, the
// submission time recorded, any stale rejection reason cleared.
func (s *Service) markSubmitted(record *domain.Verification) {
	now := time.Now().UTC()
	record.Status = domain.VerificationPending
	record.SubmittedAt = &now
	record.RejectionReason = ""
}

func (s *Service) notifySubmission(ctx context.Context, user *domain.User) {
	if s.notifs == nil {
		return
	}
	if err := s.notifs.SubmissionReceived(ctx, user); err != nil {
		log.Printf("verification: submission email failed user_id=%d err=%v", user.ID, err)
	}
	if err := s.notifs.SubmissionAlert(ctx, user); err != nil {
		log.Printf("verification: admin alert email failed user_id=%d err=%v", user.ID, err)
	}
}

func statusOf(user *domain.User, record *domain.Verification) *StatusResponse {
	resp := &StatusResponse{
		Status:            record.Status,
		IsVerified:        user.IsVerified,
		DocumentsComplete: record.DocumentsComplete,
		SubmittedAt:       record.SubmittedAt,
		ReviewedAt:        record.ReviewedAt,
	}
	if record.Status == domain.VerificationRejected {
		resp.RejectionReason = record.RejectionReason
	}
	return resp
}
