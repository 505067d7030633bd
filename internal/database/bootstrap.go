package database

import (
	"context"
	"log"
	"time"

	"investhub/internal/domain"
	"investhub/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdmin guarantees that at least one admin account exists. It is safe
// to run on every process start: when an admin is already present it does
// nothing, and when bootstrap credentials are not configured it only logs.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	users := repository.NewUserRepository(db)

	count, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if email == "" || password == "" {
		log.Println("bootstrap: no admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are unset")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domain.User{
		Email:           email,
		PasswordHash:    string(hash),
		Name:            "Administrator",
		Role:            domain.RoleAdmin,
		InvestorType:    domain.InvestorNone,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("bootstrap: created admin account %s (id=%d)", email, admin.ID)
	return nil
}
