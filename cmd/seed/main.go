package main

import (
	"context"
	"log"
	"os"
	"time"

	"investhub/internal/database"
	"investhub/internal/domain"
	"investhub/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a local database with an admin and a few demo investors covering the
// main verification states. Intended for development only.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "investhub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM email_verification_codes")
	db.Exec("DELETE FROM verifications")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	records := repository.NewVerificationRepository(db)

	log.Println("Creating users...")

	admin := createUser(ctx, users, "admin@investhub.local", "admin123", "Administrator", domain.RoleAdmin)

	// Personal investor with a pending submission.
	ada := createUser(ctx, users, "ada@example.com", "password123", "Ada Lovelace", domain.RoleInvestor)
	ada.InvestorType = domain.InvestorPersonal
	must(users.Update(ctx, ada))
	submitPersonal(ctx, records, ada.ID, "Ada", "Lovelace")

	// Approved personal investor.
	grace := createUser(ctx, users, "grace@example.com", "password123", "Grace Hopper", domain.RoleInvestor)
	grace.InvestorType = domain.InvestorPersonal
	grace.IsVerified = true
	must(users.Update(ctx, grace))
	submitPersonal(ctx, records, grace.ID, "Grace", "Hopper")
	approve(ctx, records, grace.ID, admin.ID)

	// Corporate startup founder, documents not yet complete.
	alan := createUser(ctx, users, "alan@example.com", "password123", "Alan Turing", domain.RoleStartup)
	alan.InvestorType = domain.InvestorCorporate
	must(users.Update(ctx, alan))
	submitCorporate(ctx, records, alan.ID, "Universal Machines Ltd")

	log.Println("Seed complete.")
	log.Println("  admin@investhub.local / admin123")
	log.Println("  ada@example.com / password123 (pending)")
	log.Println("  grace@example.com / password123 (approved)")
	log.Println("  alan@example.com / password123 (corporate, pending)")
}

func createUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.Role) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	now := time.Now()
	u := &domain.User{
		Email:           email,
		PasswordHash:    string(hash),
		Name:            name,
		Role:            role,
		InvestorType:    domain.InvestorNone,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	must(users.Create(ctx, u))
	return u
}

func submitPersonal(ctx context.Context, records *repository.VerificationRepository, userID int64, firstName, surname string) {
	rec, err := records.GetByUserID(ctx, userID)
	if err != nil {
		log.Fatal(err)
	}
	now := time.Now().UTC()
	rec.Personal = &domain.PersonalInfo{
		FirstName:          firstName,
		Surname:            surname,
		Phone:              "+2348000000000",
		Email:              firstName + "@example.com",
		ResidentialAddress: "1 Demo Street",
	}
	rec.NextOfKin = &domain.NextOfKin{FullName: "Demo Kin", Relationship: "Sibling", Phone: "+2348000000001"}
	rec.BankDetails = &domain.BankDetails{AccountName: firstName + " " + surname, AccountNumber: "0123456789", BankName: "First Bank"}
	rec.FirstName = firstName
	rec.Surname = surname
	rec.SubmittedAt = &now
	must(records.Update(ctx, rec))
}

func submitCorporate(ctx context.Context, records *repository.VerificationRepository, userID int64, companyName string) {
	rec, err := records.GetByUserID(ctx, userID)
	if err != nil {
		log.Fatal(err)
	}
	now := time.Now().UTC()
	rec.Corporate = &domain.Corporate{
		Company: &domain.Company{
			Name:            companyName,
			RCNumber:        "RC-1936",
			BusinessAddress: "1 Demo Street",
			Email:           "ops@demo.example",
			Phone:           "+2348000000002",
		},
		BankDetails: &domain.BankDetails{AccountName: companyName, AccountNumber: "9876543210", BankName: "First Bank"},
		Documents:   &domain.CorporateDocuments{},
		Signatories: []domain.Signatory{{FullName: "Alan Turing", Position: "Director"}},
	}
	rec.CompanyName = companyName
	rec.SubmittedAt = &now
	must(records.Update(ctx, rec))
}

func approve(ctx context.Context, records *repository.VerificationRepository, userID, reviewerID int64) {
	rec, err := records.GetByUserID(ctx, userID)
	if err != nil {
		log.Fatal(err)
	}
	now := time.Now().UTC()
	rec.Status = domain.VerificationApproved
	rec.ReviewedAt = &now
	rec.ReviewedBy = &reviewerID
	must(records.Update(ctx, rec))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
