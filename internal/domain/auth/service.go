package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound          = errors.New("role not found")
	ErrNameTaken         = errors.New("role name already in use")
	ErrRoleInUse         = errors.New("role is assigned to active users")
	ErrUnknownPermission = errors.New("unknown permission")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) FindActiveUserByEmail(ctx context.Context, email string) (User, error) {
	return s.store.FindActiveUserByEmail(ctx, email)
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (string, error) {
	return s.store.CreateUser(ctx, email, firstName, lastName, passwordHash)
}

func (s *Service) UpdateLastLogin(ctx context.Context, userID string) error {
	return s.store.UpdateLastLogin(ctx, userID)
}

func (s *Service) PermissionsForUser(ctx context.Context, userID string) (map[string]struct{}, error) {
	return s.store.PermissionsForUser(ctx, userID)
}

func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *Service) GetRole(ctx context.Context, roleID string) (Role, []string, error) {
	role, err := s.store.GetRole(ctx, roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, nil, ErrNotFound
	}
	if err != nil {
		return Role{}, nil, err
	}
	perms, err := s.store.RolePermissionNames(ctx, roleID)
	if err != nil {
		return Role{}, nil, err
	}
	return role, perms, nil
}

func (s *Service) CreateRole(ctx context.Context, name, description, actorID string) (string, error) {
	name = strings.TrimSpace(name)
	taken, err := s.store.RoleNameTaken(ctx, name, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrNameTaken
	}
	return s.store.CreateRole(ctx, name, description, actorID)
}

func (s *Service) UpdateRole(ctx context.Context, roleID string, name, description *string, actorID string) error {
	role, err := s.store.GetRole(ctx, roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// Merge semantics: only provided fields overwrite.
	newName, newDescription := role.Name, role.Description
	if name != nil {
		newName = strings.TrimSpace(*name)
	}
	if description != nil {
		newDescription = *description
	}

	taken, err := s.store.RoleNameTaken(ctx, newName, roleID)
	if err != nil {
		return err
	}
	if taken {
		return ErrNameTaken
	}

	updated, err := s.store.UpdateRole(ctx, roleID, newName, newDescription, actorID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteRole(ctx context.Context, roleID, actorID string) error {
	inUse, err := s.store.RoleHasActiveUsers(ctx, roleID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrRoleInUse
	}
	deleted, err := s.store.SoftDeleteRole(ctx, roleID, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID string, permissions []string) error {
	if _, err := s.store.GetRole(ctx, roleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	for _, perm := range permissions {
		if !KnownPermission(perm) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, perm)
		}
	}
	return s.store.ReplaceRolePermissions(ctx, roleID, permissions)
}

func (s *Service) UserRoleNames(ctx context.Context, userID string) ([]string, error) {
	return s.store.UserRoleNames(ctx, userID)
}

func (s *Service) ReplaceUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		if _, err := s.store.GetRole(ctx, roleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return s.store.ReplaceUserRoles(ctx, userID, roleIDs)
}
