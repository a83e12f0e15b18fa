package company

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/platform/querier"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

const companySelect = `
    SELECT c.id, c.name,
           c.city_id, ci.name,
           c.country_id, co.name,
           c.status_id, st.name,
           (SELECT COUNT(1) FROM employees e WHERE e.company_id = c.id AND e.deleted_at IS NULL),
           c.created_at, c.created_by, c.modified_at, c.modified_by
    FROM companies c
    LEFT JOIN cities ci ON ci.id = c.city_id
    LEFT JOIN countries co ON co.id = c.country_id
    LEFT JOIN statuses st ON st.id = c.status_id
`

func (s *Store) List(ctx context.Context) ([]Company, error) {
	rows, err := s.DB.Query(ctx, companySelect+" WHERE c.deleted_at IS NULL ORDER BY c.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(
			&c.ID, &c.Name, &c.CityID, &c.CityName, &c.CountryID, &c.CountryName,
			&c.StatusID, &c.StatusName, &c.EmployeeCount,
			&c.CreatedAt, &c.CreatedBy, &c.ModifiedAt, &c.ModifiedBy,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, companySelect+" WHERE c.id = $1 AND c.deleted_at IS NULL", id).Scan(
		&c.ID, &c.Name, &c.CityID, &c.CityName, &c.CountryID, &c.CountryName,
		&c.StatusID, &c.StatusName, &c.EmployeeCount,
		&c.CreatedAt, &c.CreatedBy, &c.ModifiedAt, &c.ModifiedBy,
	)
	return c, err
}

func (s *Store) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	query, args := nameTakenQuery(name, excludeID)
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// nameTakenQuery appends the exclusion clause only when an id is given;
// binding an empty string against the uuid column fails at plan time.
func nameTakenQuery(name, excludeID string) (string, []any) {
	query := `
    SELECT COUNT(1) FROM companies
    WHERE lower(name) = lower($1) AND deleted_at IS NULL
  `
	args := []any{name}
	if excludeID != "" {
		query += " AND id != $2"
		args = append(args, excludeID)
	}
	return query, args
}

func (s *Store) Insert(ctx context.Context, q querier.Querier, name string, cityID, countryID, statusID *string, actorID string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO companies (name, city_id, country_id, status_id, created_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, name, cityID, countryID, statusID, actorID).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, q querier.Querier, id, name string, cityID, countryID, statusID *string, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE companies
    SET name = $1, city_id = $2, country_id = $3, status_id = $4, modified_at = now(), modified_by = $5
    WHERE id = $6 AND deleted_at IS NULL
  `, name, cityID, countryID, statusID, actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) SoftDelete(ctx context.Context, q querier.Querier, id, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE companies
    SET deleted_at = now(), deleted_by = $1
    WHERE id = $2 AND deleted_at IS NULL
  `, actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) HasActiveEmployees(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees
    WHERE company_id = $1 AND deleted_at IS NULL
  `, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LookupName resolves a display label for a relation event. The table comes
// from a fixed set of referential tables.
func (s *Store) LookupName(ctx context.Context, table, id string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, fmt.Sprintf("SELECT name FROM %s WHERE id = $1", table), id).Scan(&name)
	return name, err
}
