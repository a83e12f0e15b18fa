package employee

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

const employeeSelect = `
    SELECT e.id, e.first_name, e.last_name, e.email, e.hire_date,
           e.company_id, co.name,
           e.status_id, st.name,
           e.city_id, ci.name,
           e.nationality_id, na.name,
           e.marital_status_id, ms.name,
           e.education_level_id, el.name,
           e.gender_id, ge.name,
           e.created_at, e.created_by, e.modified_at, e.modified_by
    FROM employees e
    LEFT JOIN companies co ON co.id = e.company_id
    LEFT JOIN statuses st ON st.id = e.status_id
    LEFT JOIN cities ci ON ci.id = e.city_id
    LEFT JOIN nationalities na ON na.id = e.nationality_id
    LEFT JOIN marital_statuses ms ON ms.id = e.marital_status_id
    LEFT JOIN education_levels el ON el.id = e.education_level_id
    LEFT JOIN genders ge ON ge.id = e.gender_id
`

func scanEmployee(row interface{ Scan(dest ...any) error }) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.HireDate,
		&e.CompanyID, &e.CompanyName,
		&e.StatusID, &e.StatusName,
		&e.CityID, &e.CityName,
		&e.NationalityID, &e.NationalityName,
		&e.MaritalStatusID, &e.MaritalStatusName,
		&e.EducationLevelID, &e.EducationLevelName,
		&e.GenderID, &e.GenderName,
		&e.CreatedAt, &e.CreatedBy, &e.ModifiedAt, &e.ModifiedBy,
	)
	return e, err
}

func (s *Store) List(ctx context.Context, companyID string, limit, offset int) ([]Employee, error) {
	query := employeeSelect + " WHERE e.deleted_at IS NULL"
	args := []any{}
	if companyID != "" {
		args = append(args, companyID)
		query += fmt.Sprintf(" AND e.company_id = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY e.last_name, e.first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1 AND e.deleted_at IS NULL", id))
}

func (s *Store) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query, args := emailTakenQuery(email, excludeID)
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// emailTakenQuery appends the exclusion clause only when an id is given;
// binding an empty string against the uuid column fails at plan time.
func emailTakenQuery(email, excludeID string) (string, []any) {
	query := `
    SELECT COUNT(1) FROM employees
    WHERE lower(email) = lower($1) AND deleted_at IS NULL
  `
	args := []any{email}
	if excludeID != "" {
		query += " AND id != $2"
		args = append(args, excludeID)
	}
	return query, args
}

func (s *Store) Insert(ctx context.Context, q querier.Querier, e Employee, actorID string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, hire_date, company_id, status_id, city_id,
      nationality_id, marital_status_id, education_level_id, gender_id, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, e.FirstName, e.LastName, e.Email, e.HireDate, e.CompanyID, e.StatusID, e.CityID,
		e.NationalityID, e.MaritalStatusID, e.EducationLevelID, e.GenderID, actorID).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, q querier.Querier, e Employee, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, hire_date = $4,
        company_id = $5, status_id = $6, city_id = $7, nationality_id = $8,
        marital_status_id = $9, education_level_id = $10, gender_id = $11,
        modified_at = now(), modified_by = $12
    WHERE id = $13 AND deleted_at IS NULL
  `, e.FirstName, e.LastName, e.Email, e.HireDate,
		e.CompanyID, e.StatusID, e.CityID, e.NationalityID,
		e.MaritalStatusID, e.EducationLevelID, e.GenderID, actorID, e.ID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) SoftDelete(ctx context.Context, q querier.Querier, id, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE employees
    SET deleted_at = now(), deleted_by = $1
    WHERE id = $2 AND deleted_at IS NULL
  `, actorID, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// LookupName resolves a display label for relation events; table names come
// from a fixed internal set.
func (s *Store) LookupName(ctx context.Context, table, id string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, fmt.Sprintf("SELECT name FROM %s WHERE id = $1", table), id).Scan(&name)
	return name, err
}

func (s *Store) ListContracts(ctx context.Context, employeeID string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, contract_type, start_date, end_date, created_at, created_by, modified_at, modified_by
    FROM contracts
    WHERE employee_id = $1
    ORDER BY start_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.ContractType, &c.StartDate, &c.EndDate,
			&c.CreatedAt, &c.CreatedBy, &c.ModifiedAt, &c.ModifiedBy); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContract(ctx context.Context, employeeID, contractID string) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, contract_type, start_date, end_date, created_at, created_by, modified_at, modified_by
    FROM contracts
    WHERE id = $1 AND employee_id = $2
  `, contractID, employeeID).Scan(&c.ID, &c.EmployeeID, &c.ContractType, &c.StartDate, &c.EndDate,
		&c.CreatedAt, &c.CreatedBy, &c.ModifiedAt, &c.ModifiedBy)
	return c, err
}

func (s *Store) InsertContract(ctx context.Context, q querier.Querier, c Contract, actorID string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO contracts (employee_id, contract_type, start_date, end_date, created_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, c.EmployeeID, c.ContractType, c.StartDate, c.EndDate, actorID).Scan(&id)
	return id, err
}

func (s *Store) UpdateContract(ctx context.Context, q querier.Querier, c Contract, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE contracts
    SET contract_type = $1, start_date = $2, end_date = $3, modified_at = now(), modified_by = $4
    WHERE id = $5 AND employee_id = $6
  `, c.ContractType, c.StartDate, c.EndDate, actorID, c.ID, c.EmployeeID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) ListSalaries(ctx context.Context, employeeID string) ([]Salary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, amount, currency, effective_date, created_at, created_by, modified_at, modified_by
    FROM salaries
    WHERE employee_id = $1
    ORDER BY effective_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Salary
	for rows.Next() {
		var sal Salary
		if err := rows.Scan(&sal.ID, &sal.EmployeeID, &sal.Amount, &sal.Currency, &sal.EffectiveDate,
			&sal.CreatedAt, &sal.CreatedBy, &sal.ModifiedAt, &sal.ModifiedBy); err != nil {
			return nil, err
		}
		out = append(out, sal)
	}
	return out, rows.Err()
}

func (s *Store) GetSalary(ctx context.Context, employeeID, salaryID string) (Salary, error) {
	var sal Salary
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, amount, currency, effective_date, created_at, created_by, modified_at, modified_by
    FROM salaries
    WHERE id = $1 AND employee_id = $2
  `, salaryID, employeeID).Scan(&sal.ID, &sal.EmployeeID, &sal.Amount, &sal.Currency, &sal.EffectiveDate,
		&sal.CreatedAt, &sal.CreatedBy, &sal.ModifiedAt, &sal.ModifiedBy)
	return sal, err
}

func (s *Store) LatestSalary(ctx context.Context, employeeID string) (Salary, error) {
	var sal Salary
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, amount, currency, effective_date, created_at, created_by, modified_at, modified_by
    FROM salaries
    WHERE employee_id = $1
    ORDER BY effective_date DESC
    LIMIT 1
  `, employeeID).Scan(&sal.ID, &sal.EmployeeID, &sal.Amount, &sal.Currency, &sal.EffectiveDate,
		&sal.CreatedAt, &sal.CreatedBy, &sal.ModifiedAt, &sal.ModifiedBy)
	return sal, err
}

func (s *Store) InsertSalary(ctx context.Context, q querier.Querier, sal Salary, actorID string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO salaries (employee_id, amount, currency, effective_date, created_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, sal.EmployeeID, sal.Amount, sal.Currency, sal.EffectiveDate, actorID).Scan(&id)
	return id, err
}

func (s *Store) UpdateSalary(ctx context.Context, q querier.Querier, sal Salary, actorID string) (bool, error) {
	cmd, err := q.Exec(ctx, `
    UPDATE salaries
    SET amount = $1, currency = $2, effective_date = $3, modified_at = now(), modified_by = $4
    WHERE id = $5 AND employee_id = $6
  `, sal.Amount, sal.Currency, sal.EffectiveDate, actorID, sal.ID, sal.EmployeeID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
