package main

import (
	"context"
	"log"

	"investhub/internal/config"
	"investhub/internal/database"
	"investhub/internal/middleware"
	"investhub/internal/modules/admin"
	"investhub/internal/modules/auth"
	"investhub/internal/modules/notification"
	"investhub/internal/modules/upload"
	"investhub/internal/modules/verification"
	jwtsvc "investhub/internal/pkg/jwt"
	"investhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	if err := database.EnsureAdmin(context.Background(), db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	emailCodeRepo := repository.NewEmailCodeRepository(db)

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	mailer := notification.NewService(notification.NewConsoleSender(true), cfg.AdminAlertEmail)
	documents := upload.NewService(cfg.UploadsDir)

	authService := auth.NewService(userRepo, emailCodeRepo, jwt, mailer, auth.ServiceConfig{
		CodePepper:     cfg.VerificationCodePepper,
		CodeTTL:        cfg.VerifyCodeTTL,
		ResendCooldown: cfg.VerifyResendCooldown,
	})
	authHandler := auth.NewHandler(authService)

	verificationService := verification.NewService(userRepo, verificationRepo, documents, mailer)
	verificationHandler := verification.NewHandler(verificationService)

	adminService := admin.NewService(userRepo, verificationRepo, mailer, cfg.PublicBaseURL)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	r.Static("/uploads", cfg.UploadsDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwt))
		{
			authHandler.RegisterProtectedRoutes(protected)
			verificationHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
