package referential

import (
	"context"
	"fmt"
	"time"

	"paydesk/internal/platform/querier"
)

// Item is one active lookup row.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  *string    `json:"createdBy,omitempty"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
	ModifiedBy *string    `json:"modifiedBy,omitempty"`
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const itemColumns = "id, name, created_at, created_by, modified_at, modified_by"

// Table names are interpolated from the fixed Kind catalog, never from input.

func (s *Store) List(ctx context.Context, kind Kind) ([]Item, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT %s FROM %s
    WHERE deleted_at IS NULL
    ORDER BY name
  `, itemColumns, kind.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt, &item.CreatedBy, &item.ModifiedAt, &item.ModifiedBy); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, kind Kind, id string) (Item, error) {
	var item Item
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT %s FROM %s
    WHERE id = $1 AND deleted_at IS NULL
  `, itemColumns, kind.Table), id).Scan(&item.ID, &item.Name, &item.CreatedAt, &item.CreatedBy, &item.ModifiedAt, &item.ModifiedBy)
	return item, err
}

// NameTaken checks uniqueness among active rows only; soft-deleted rows do
// not block reuse of their name.
func (s *Store) NameTaken(ctx context.Context, kind Kind, name, excludeID string) (bool, error) {
	query, args := nameTakenQuery(kind, name, excludeID)
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// nameTakenQuery appends the exclusion clause only when an id is given;
// binding an empty string against the uuid column fails at plan time.
func nameTakenQuery(kind Kind, name, excludeID string) (string, []any) {
	query := fmt.Sprintf(`
    SELECT COUNT(1) FROM %s
    WHERE lower(name) = lower($1) AND deleted_at IS NULL
  `, kind.Table)
	args := []any{name}
	if excludeID != "" {
		query += " AND id != $2"
		args = append(args, excludeID)
	}
	return query, args
}

func (s *Store) Insert(ctx context.Context, kind Kind, name, actorID string) (Item, error) {
	var item Item
	err := s.DB.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO %s (name, created_by)
    VALUES ($1, $2)
    RETURNING %s
  `, kind.Table, itemColumns), name, actorID).Scan(&item.ID, &item.Name, &item.CreatedAt, &item.CreatedBy, &item.ModifiedAt, &item.ModifiedBy)
	return item, err
}

func (s *Store) Rename(ctx context.Context, kind Kind, id, name, actorID string) (bool, error) {
	cmd, err := s.DB.Exec(ctx, fmt.Sprintf(`
    UPDATE %s
    SET name = $1, modified_at = now(), modified_by = $2
    WHERE id = $3 AND deleted_at IS NULL
  `, kind.Table), name, actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) SoftDelete(ctx context.Context, kind Kind, id, actorID string) (bool, error) {
	cmd, err := s.DB.Exec(ctx, fmt.Sprintf(`
    UPDATE %s
    SET deleted_at = now(), deleted_by = $1
    WHERE id = $2 AND deleted_at IS NULL
  `, kind.Table), actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// HasActiveDependents reports whether any active row still references the
// lookup value, across every dependent column registered for the kind.
func (s *Store) HasActiveDependents(ctx context.Context, kind Kind, id string) (bool, error) {
	for _, dep := range kind.Dependents {
		var count int
		err := s.DB.QueryRow(ctx, fmt.Sprintf(`
      SELECT COUNT(1) FROM %s
      WHERE %s = $1 AND deleted_at IS NULL
    `, dep.Table, dep.Column), id).Scan(&count)
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
