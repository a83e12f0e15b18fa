package dashboard

import (
	"context"

	"paydesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// Headcounts returns the active-employee count of every active company.
func (s *Store) Headcounts(ctx context.Context) ([]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COUNT(e.id)
    FROM companies c
    LEFT JOIN employees e ON e.company_id = c.id AND e.deleted_at IS NULL
    WHERE c.deleted_at IS NULL
    GROUP BY c.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			return nil, err
		}
		out = append(out, count)
	}
	return out, rows.Err()
}

func (s *Store) TotalCompanies(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM companies WHERE deleted_at IS NULL").Scan(&total)
	return total, err
}

func (s *Store) TotalEmployees(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE deleted_at IS NULL").Scan(&total)
	return total, err
}

func (s *Store) EmployeesByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(st.name, 'unspecified'), COUNT(1)
    FROM employees e
    LEFT JOIN statuses st ON st.id = e.status_id
    WHERE e.deleted_at IS NULL
    GROUP BY st.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		out[name] = count
	}
	return out, rows.Err()
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	companies, err := s.store.TotalCompanies(ctx)
	if err != nil {
		return Summary{}, err
	}
	employees, err := s.store.TotalEmployees(ctx)
	if err != nil {
		return Summary{}, err
	}
	byStatus, err := s.store.EmployeesByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalCompanies:             companies,
		TotalEmployees:             employees,
		AverageEmployeesPerCompany: AverageEmployees(employees, companies),
		EmployeesByStatus:          byStatus,
	}, nil
}

func (s *Service) EmployeeDistribution(ctx context.Context) ([]Bucket, error) {
	headcounts, err := s.store.Headcounts(ctx)
	if err != nil {
		return nil, err
	}
	return Distribution(headcounts), nil
}
