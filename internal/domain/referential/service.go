package referential

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound      = errors.New("lookup row not found")
	ErrNameTaken     = errors.New("name already in use")
	ErrHasDependents = errors.New("row is referenced by active records")
)

type store interface {
	List(ctx context.Context, kind Kind) ([]Item, error)
	Get(ctx context.Context, kind Kind, id string) (Item, error)
	NameTaken(ctx context.Context, kind Kind, name, excludeID string) (bool, error)
	Insert(ctx context.Context, kind Kind, name, actorID string) (Item, error)
	Rename(ctx context.Context, kind Kind, id, name, actorID string) (bool, error)
	SoftDelete(ctx context.Context, kind Kind, id, actorID string) (bool, error)
	HasActiveDependents(ctx context.Context, kind Kind, id string) (bool, error)
}

type Service struct {
	store store
}

func NewService(store store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Item, error) {
	return s.store.List(ctx, kind)
}

func (s *Service) Get(ctx context.Context, kind Kind, id string) (Item, error) {
	item, err := s.store.Get(ctx, kind, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (s *Service) Create(ctx context.Context, kind Kind, name, actorID string) (Item, error) {
	name = strings.TrimSpace(name)
	taken, err := s.store.NameTaken(ctx, kind, name, "")
	if err != nil {
		return Item{}, err
	}
	if taken {
		return Item{}, ErrNameTaken
	}
	return s.store.Insert(ctx, kind, name, actorID)
}

// Update applies merge semantics: a nil name leaves the row unchanged.
func (s *Service) Update(ctx context.Context, kind Kind, id string, name *string, actorID string) (Item, error) {
	current, err := s.Get(ctx, kind, id)
	if err != nil {
		return Item{}, err
	}

	newName := current.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
	}

	taken, err := s.store.NameTaken(ctx, kind, newName, id)
	if err != nil {
		return Item{}, err
	}
	if taken {
		return Item{}, ErrNameTaken
	}

	renamed, err := s.store.Rename(ctx, kind, id, newName, actorID)
	if err != nil {
		return Item{}, err
	}
	if !renamed {
		return Item{}, ErrNotFound
	}
	return s.Get(ctx, kind, id)
}

// Delete soft-deletes the row unless an active dependent still references it.
func (s *Service) Delete(ctx context.Context, kind Kind, id, actorID string) error {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return err
	}

	blocked, err := s.store.HasActiveDependents(ctx, kind, id)
	if err != nil {
		return err
	}
	if blocked {
		return ErrHasDependents
	}

	deleted, err := s.store.SoftDelete(ctx, kind, id, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
