package verification

import "errors"

// ValidationError carries per-field failures from the deep corporate
// submission check.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMissingDocuments    = errors.New("idDocument, passportPhoto and utilityBill are all required")
	ErrNoFiles             = errors.New("no files were provided")
	ErrTooManyFiles        = errors.New("too many files in one request")
	ErrCompanyRequired     = errors.New("company details are required")
	ErrBankDetailsRequired = errors.New("bank details are required")
	ErrSignatoriesRequired = errors.New("at least one signatory is required")
)
