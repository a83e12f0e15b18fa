package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/domain/auth"
	"paydesk/internal/platform/config"
)

// Seed is idempotent: every statement upserts, so repeated startups converge
// on the same baseline of permissions, roles and the bootstrap admin.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := seedPermissions(ctx, pool); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := seedRoles(ctx, pool); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedAdminUser(ctx, pool, cfg); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func seedPermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range auth.DefaultPermissions {
		if _, err := pool.Exec(ctx, `
      INSERT INTO permissions (name)
      VALUES ($1)
      ON CONFLICT (name) DO NOTHING
    `, name); err != nil {
			return err
		}
	}
	return nil
}

func seedRoles(ctx context.Context, pool *pgxpool.Pool) error {
	for roleName, permissions := range auth.RolePermissions {
		var roleID string
		err := pool.QueryRow(ctx, `
      INSERT INTO roles (name)
      VALUES ($1)
      ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
      RETURNING id
    `, roleName).Scan(&roleID)
		if err != nil {
			return err
		}
		for _, perm := range permissions {
			if _, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT $1, id FROM permissions WHERE name = $2
        ON CONFLICT DO NOTHING
      `, roleID, perm); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		slog.Info("admin seed skipped, SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	var exists bool
	if err := pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", cfg.SeedAdminEmail).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	var userID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO users (email, first_name, last_name, password_hash)
    VALUES ($1, 'System', 'Administrator', $2)
    RETURNING id
  `, cfg.SeedAdminEmail, hash).Scan(&userID); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
    INSERT INTO user_roles (user_id, role_id)
    SELECT $1, id FROM roles WHERE name = $2
    ON CONFLICT DO NOTHING
  `, userID, auth.RoleAdmin); err != nil {
		return err
	}

	slog.Info("admin user seeded", "email", cfg.SeedAdminEmail)
	return nil
}
