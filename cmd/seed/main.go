package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/config"
	"github.com/oksasatya/go-user-accounts/internal/application"
	pginfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// seed creates the initial ADMIN account from SEED_ADMIN_*. Running it again
// is harmless: an existing username or email is reported and left alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    2,
		MinConns:    1,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := application.NewUserService(pginfra.NewUserRepository(pool), helpers.NewBcryptHasher(cfg.BcryptCost), logger)
	u, err := users.CreateByAdmin(ctx, application.RegisterInput{
		Username: cfg.SeedAdminUsername,
		Password: cfg.SeedAdminPassword,
		Email:    cfg.SeedAdminEmail,
	}, "ADMIN")
	switch {
	case errors.Is(err, application.ErrDuplicateUsername), errors.Is(err, application.ErrDuplicateEmail):
		logger.WithFields(logrus.Fields{"username": cfg.SeedAdminUsername, "email": cfg.SeedAdminEmail}).Info("admin already present, nothing to seed")
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("seeded admin user")
	}
}
