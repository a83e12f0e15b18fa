package employee

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/domain/events"
)

func (s *Service) ListContracts(ctx context.Context, employeeID string) ([]Contract, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListContracts(ctx, employeeID)
}

// CreateContract inserts the contract and a Contract_Created event atomically.
func (s *Service) CreateContract(ctx context.Context, employeeID, contractType string, startDate time.Time, endDate *time.Time, actorID string) (Contract, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return Contract{}, err
	}
	if contractType == "" || startDate.IsZero() {
		return Contract{}, ErrMissingField
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Contract{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.store.InsertContract(ctx, tx, Contract{
		EmployeeID:   employeeID,
		ContractType: contractType,
		StartDate:    startDate,
		EndDate:      endDate,
	}, actorID)
	if err != nil {
		return Contract{}, err
	}
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(employeeID, events.ContractCreated, nil, &contractType, actorID)); err != nil {
		return Contract{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Contract{}, err
	}

	return s.store.GetContract(ctx, employeeID, id)
}

// UpdateContract applies merge semantics; setting an end date on an open
// contract records Contract_Ended instead of Contract_Updated.
func (s *Service) UpdateContract(ctx context.Context, employeeID, contractID string, contractType *string, startDate, endDate *time.Time, actorID string) (Contract, error) {
	current, err := s.store.GetContract(ctx, employeeID, contractID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrContractNotFound
	}
	if err != nil {
		return Contract{}, err
	}

	next := current
	if contractType != nil && *contractType != "" {
		next.ContractType = *contractType
	}
	if startDate != nil {
		next.StartDate = *startDate
	}
	if endDate != nil {
		next.EndDate = endDate
	}

	eventName := events.ContractUpdated
	if current.EndDate == nil && next.EndDate != nil {
		eventName = events.ContractEnded
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Contract{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := s.store.UpdateContract(ctx, tx, next, actorID)
	if err != nil {
		return Contract{}, err
	}
	if !updated {
		return Contract{}, ErrContractNotFound
	}
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(employeeID, eventName, &current.ContractType, &next.ContractType, actorID)); err != nil {
		return Contract{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Contract{}, err
	}

	return s.store.GetContract(ctx, employeeID, contractID)
}

func (s *Service) ListSalaries(ctx context.Context, employeeID string) ([]Salary, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListSalaries(ctx, employeeID)
}

// CreateSalary inserts the salary row and a Salary_Created event atomically.
func (s *Service) CreateSalary(ctx context.Context, employeeID string, amount float64, currency string, effectiveDate time.Time, actorID string) (Salary, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return Salary{}, err
	}
	if amount <= 0 || currency == "" || effectiveDate.IsZero() {
		return Salary{}, ErrMissingField
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Salary{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.store.InsertSalary(ctx, tx, Salary{
		EmployeeID:    employeeID,
		Amount:        amount,
		Currency:      currency,
		EffectiveDate: effectiveDate,
	}, actorID)
	if err != nil {
		return Salary{}, err
	}
	newValue := formatAmount(amount, currency)
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(employeeID, events.SalaryCreated, nil, &newValue, actorID)); err != nil {
		return Salary{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Salary{}, err
	}

	return s.store.GetSalary(ctx, employeeID, id)
}

// UpdateSalary applies merge semantics and records Salary_Updated with the
// old and new amounts.
func (s *Service) UpdateSalary(ctx context.Context, employeeID, salaryID string, amount *float64, currency *string, effectiveDate *time.Time, actorID string) (Salary, error) {
	current, err := s.store.GetSalary(ctx, employeeID, salaryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrSalaryNotFound
	}
	if err != nil {
		return Salary{}, err
	}

	next := current
	if amount != nil {
		if *amount <= 0 {
			return Salary{}, ErrMissingField
		}
		next.Amount = *amount
	}
	if currency != nil && *currency != "" {
		next.Currency = *currency
	}
	if effectiveDate != nil {
		next.EffectiveDate = *effectiveDate
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Salary{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := s.store.UpdateSalary(ctx, tx, next, actorID)
	if err != nil {
		return Salary{}, err
	}
	if !updated {
		return Salary{}, ErrSalaryNotFound
	}
	oldValue := formatAmount(current.Amount, current.Currency)
	newValue := formatAmount(next.Amount, next.Currency)
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(employeeID, events.SalaryUpdated, &oldValue, &newValue, actorID)); err != nil {
		return Salary{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Salary{}, err
	}

	return s.store.GetSalary(ctx, employeeID, salaryID)
}

func (s *Service) LatestSalary(ctx context.Context, employeeID string) (Salary, error) {
	sal, err := s.store.LatestSalary(ctx, employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrSalaryNotFound
	}
	return sal, err
}

func formatAmount(amount float64, currency string) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + " " + currency
}
