package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Role struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *string    `json:"createdBy,omitempty"`
	ModifiedAt  *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy  *string    `json:"modifiedBy,omitempty"`
}

type Permission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, first_name, last_name, password_hash, last_login, created_at
    FROM users
    WHERE email = $1 AND deleted_at IS NULL
  `, email).Scan(&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.PasswordHash, &out.LastLogin, &out.CreatedAt)
	return out, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, first_name, last_name, password_hash, last_login, created_at
    FROM users
    WHERE id = $1 AND deleted_at IS NULL
  `, userID).Scan(&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.PasswordHash, &out.LastLogin, &out.CreatedAt)
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, first_name, last_name, password_hash)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, email, firstName, lastName, passwordHash).Scan(&id)
	return id, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

// PermissionsForUser resolves the effective permission set: the union of the
// permissions of every active role assigned to the user.
func (s *Store) PermissionsForUser(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT p.name
    FROM user_roles ur
    JOIN roles r ON r.id = ur.role_id AND r.deleted_at IS NULL
    JOIN role_permissions rp ON rp.role_id = r.id
    JOIN permissions p ON p.id = rp.permission_id
    WHERE ur.user_id = $1
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = struct{}{}
	}
	return out, rows.Err()
}

func (s *Store) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.DB.Query(ctx, "SELECT name, COALESCE(description, '') FROM permissions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.Name, &p.Description); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), created_at, created_by, modified_at, modified_by
    FROM roles
    WHERE deleted_at IS NULL
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.CreatedBy, &role.ModifiedAt, &role.ModifiedBy); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (s *Store) GetRole(ctx context.Context, roleID string) (Role, error) {
	var role Role
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, ''), created_at, created_by, modified_at, modified_by
    FROM roles
    WHERE id = $1 AND deleted_at IS NULL
  `, roleID).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.CreatedBy, &role.ModifiedAt, &role.ModifiedBy)
	return role, err
}

func (s *Store) RoleNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	query, args := roleNameTakenQuery(name, excludeID)
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// roleNameTakenQuery appends the exclusion clause only when an id is given;
// binding an empty string against the uuid column fails at plan time.
func roleNameTakenQuery(name, excludeID string) (string, []any) {
	query := `
    SELECT COUNT(1)
    FROM roles
    WHERE lower(name) = lower($1) AND deleted_at IS NULL
  `
	args := []any{name}
	if excludeID != "" {
		query += " AND id != $2"
		args = append(args, excludeID)
	}
	return query, args
}

func (s *Store) CreateRole(ctx context.Context, name, description, actorID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO roles (name, description, created_by)
    VALUES ($1,$2,$3)
    RETURNING id
  `, name, description, actorID).Scan(&id)
	return id, err
}

func (s *Store) UpdateRole(ctx context.Context, roleID, name, description, actorID string) (bool, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE roles
    SET name = $1, description = $2, modified_at = now(), modified_by = $3
    WHERE id = $4 AND deleted_at IS NULL
  `, name, description, actorID, roleID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) SoftDeleteRole(ctx context.Context, roleID, actorID string) (bool, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE roles
    SET deleted_at = now(), deleted_by = $1
    WHERE id = $2 AND deleted_at IS NULL
  `, actorID, roleID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) RoleHasActiveUsers(ctx context.Context, roleID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM user_roles ur
    JOIN users u ON u.id = ur.user_id AND u.deleted_at IS NULL
    WHERE ur.role_id = $1
  `, roleID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) RolePermissionNames(ctx context.Context, roleID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.name
    FROM role_permissions rp
    JOIN permissions p ON p.id = rp.permission_id
    WHERE rp.role_id = $1
    ORDER BY p.name
  `, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceRolePermissions swaps the role's permission set in one transaction.
func (s *Store) ReplaceRolePermissions(ctx context.Context, roleID string, permissions []string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role_id = $1", roleID); err != nil {
		return err
	}
	for _, perm := range permissions {
		if _, err := tx.Exec(ctx, `
      INSERT INTO role_permissions (role_id, permission_id)
      SELECT $1, id FROM permissions WHERE name = $2
      ON CONFLICT DO NOTHING
    `, roleID, perm); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) UserRoleNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.name
    FROM user_roles ur
    JOIN roles r ON r.id = ur.role_id AND r.deleted_at IS NULL
    WHERE ur.user_id = $1
    ORDER BY r.name
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceUserRoles swaps the user's role assignments in one transaction.
func (s *Store) ReplaceUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO user_roles (user_id, role_id)
      VALUES ($1, $2)
      ON CONFLICT DO NOTHING
    `, userID, roleID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
