// Command admin-reset creates the platform admin account, or resets its
// password if it already exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskbridge.backend/internal/config"
	"taskbridge.backend/internal/domain/entities"
	domainrepo "taskbridge.backend/internal/domain/repositories"
	"taskbridge.backend/internal/infrastructure/repositories"
	"taskbridge.backend/pkg/crypto"
)

const (
	defaultAdminEmail = "admin@taskbridge.dev"
	defaultAdminName  = "Admin"
)

var openAdminResetDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

var openAdminResetSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type adminResetDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultAdminResetDeps() adminResetDeps {
	return adminResetDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error) {
			db, err := openAdminResetDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			sqlDB, err := openAdminResetSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			return repositories.NewUserRepository(db), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func runAdminReset(args []string, deps adminResetDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("admin-reset", flag.ContinueOnError)
	emailFlag := fs.String("email", defaultAdminEmail, "admin email")
	passwordFlag := fs.String("password", "", "new admin password (required)")
	nameFlag := fs.String("name", defaultAdminName, "admin display name, used only on create")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *passwordFlag == "" {
		return fmt.Errorf("--password is required")
	}
	if len(*passwordFlag) < 8 {
		return fmt.Errorf("--password must be at least 8 characters")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	userRepo, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	hash, err := crypto.HashPassword(*passwordFlag)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ctx := context.Background()
	user, err := userRepo.GetByEmail(ctx, *emailFlag)
	if err == nil {
		if err := userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if user.Role != entities.UserRoleAdmin {
			if err := userRepo.UpdateRole(ctx, user.ID, entities.UserRoleAdmin); err != nil {
				return fmt.Errorf("failed to promote user: %w", err)
			}
		}
		_, _ = fmt.Fprintln(deps.out, "Admin password reset")
		_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
		_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
		return nil
	}

	admin := &entities.User{
		ID:           uuid.New(),
		Email:        *emailFlag,
		Name:         *nameFlag,
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		Region:       entities.RegionIndia,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "New admin created")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", admin.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", admin.Email)
	return nil
}

func main() {
	if err := runAdminReset(os.Args[1:], defaultAdminResetDeps()); err != nil {
		log.Fatal(err)
	}
}
