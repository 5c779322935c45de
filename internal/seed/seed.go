// Package seed creates the default records the application needs on
// first start.
package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/config"
	"github.com/matheus/courseplatform/internal/pkg/auth"
)

// adminCPF is a reserved placeholder, the admin account is not a real
// taxpayer.
const adminCPF = "00000000000"

// CreateDefaultData creates the default admin account if it does not
// exist yet. Credentials come from the admin section of the config.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		lgr.Info().Msg("Admin credentials not configured, skipping default admin creation")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, cfg.Admin.Email)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrador",
		Email:    cfg.Admin.Email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		CPF:      adminCPF,
		State:    "Brasília-DF",
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Default admin user created")
	return nil
}
