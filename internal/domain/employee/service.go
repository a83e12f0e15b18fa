package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/domain/events"
	"paydesk/internal/platform/querier"
)

var (
	ErrNotFound         = errors.New("employee not found")
	ErrEmailTaken       = errors.New("employee email already in use")
	ErrMissingField     = errors.New("required field missing")
	ErrContractNotFound = errors.New("contract not found")
	ErrSalaryNotFound   = errors.New("salary not found")
)

type store interface {
	List(ctx context.Context, companyID string, limit, offset int) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Insert(ctx context.Context, q querier.Querier, e Employee, actorID string) (string, error)
	Update(ctx context.Context, q querier.Querier, e Employee, actorID string) (bool, error)
	SoftDelete(ctx context.Context, q querier.Querier, id, actorID string) (bool, error)
	LookupName(ctx context.Context, table, id string) (string, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	ListContracts(ctx context.Context, employeeID string) ([]Contract, error)
	GetContract(ctx context.Context, employeeID, contractID string) (Contract, error)
	InsertContract(ctx context.Context, q querier.Querier, c Contract, actorID string) (string, error)
	UpdateContract(ctx context.Context, q querier.Querier, c Contract, actorID string) (bool, error)
	ListSalaries(ctx context.Context, employeeID string) ([]Salary, error)
	GetSalary(ctx context.Context, employeeID, salaryID string) (Salary, error)
	LatestSalary(ctx context.Context, employeeID string) (Salary, error)
	InsertSalary(ctx context.Context, q querier.Querier, sal Salary, actorID string) (string, error)
	UpdateSalary(ctx context.Context, q querier.Querier, sal Salary, actorID string) (bool, error)
}

type Service struct {
	store  store
	events *events.Service
}

func NewService(store store, eventLog *events.Service) *Service {
	return &Service{store: store, events: eventLog}
}

func (s *Service) List(ctx context.Context, companyID string, limit, offset int) ([]Employee, error) {
	return s.store.List(ctx, companyID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	e, err := s.store.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// Create inserts the employee and its Employee_Created event atomically.
func (s *Service) Create(ctx context.Context, in Input, actorID string) (Employee, error) {
	if in.FirstName == nil || strings.TrimSpace(*in.FirstName) == "" ||
		in.LastName == nil || strings.TrimSpace(*in.LastName) == "" ||
		in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return Employee{}, ErrMissingField
	}

	e := Employee{
		FirstName:        strings.TrimSpace(*in.FirstName),
		LastName:         strings.TrimSpace(*in.LastName),
		Email:            strings.TrimSpace(*in.Email),
		HireDate:         in.HireDate,
		CompanyID:        normalizeID(in.CompanyID),
		StatusID:         normalizeID(in.StatusID),
		CityID:           normalizeID(in.CityID),
		NationalityID:    normalizeID(in.NationalityID),
		MaritalStatusID:  normalizeID(in.MaritalStatusID),
		EducationLevelID: normalizeID(in.EducationLevelID),
		GenderID:         normalizeID(in.GenderID),
	}

	taken, err := s.store.EmailTaken(ctx, e.Email, "")
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrEmailTaken
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.store.Insert(ctx, tx, e, actorID)
	if err != nil {
		return Employee{}, err
	}
	fullName := e.FirstName + " " + e.LastName
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(id, events.EmployeeCreated, nil, &fullName, actorID)); err != nil {
		return Employee{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}

	return s.Get(ctx, id)
}

// Update applies merge semantics and records one event per changed field in
// the same transaction as the row update.
func (s *Service) Update(ctx context.Context, id string, in Input, actorID string) (Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}

	next := current
	if in.FirstName != nil {
		next.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		next.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		next.Email = strings.TrimSpace(*in.Email)
	}
	if in.HireDate != nil {
		next.HireDate = in.HireDate
	}
	next.CompanyID = mergeID(current.CompanyID, in.CompanyID)
	next.StatusID = mergeID(current.StatusID, in.StatusID)
	next.CityID = mergeID(current.CityID, in.CityID)
	next.NationalityID = mergeID(current.NationalityID, in.NationalityID)
	next.MaritalStatusID = mergeID(current.MaritalStatusID, in.MaritalStatusID)
	next.EducationLevelID = mergeID(current.EducationLevelID, in.EducationLevelID)
	next.GenderID = mergeID(current.GenderID, in.GenderID)

	if next.FirstName == "" || next.LastName == "" || next.Email == "" {
		return Employee{}, ErrMissingField
	}
	if next.Email != current.Email {
		taken, err := s.store.EmailTaken(ctx, next.Email, id)
		if err != nil {
			return Employee{}, err
		}
		if taken {
			return Employee{}, ErrEmailTaken
		}
	}

	entries, err := s.changeEntries(ctx, current, next, actorID)
	if err != nil {
		return Employee{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := s.store.Update(ctx, tx, next, actorID)
	if err != nil {
		return Employee{}, err
	}
	if !updated {
		return Employee{}, ErrNotFound
	}
	for _, entry := range entries {
		if err := s.events.Record(ctx, tx, events.KindEmployee, entry); err != nil {
			return Employee{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleted, err := s.store.SoftDelete(ctx, tx, id, actorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	fullName := current.FirstName + " " + current.LastName
	if err := s.events.Record(ctx, tx, events.KindEmployee,
		events.Simple(id, events.EmployeeDeleted, &fullName, nil, actorID)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) changeEntries(ctx context.Context, current, next Employee, actorID string) ([]events.Entry, error) {
	var entries []events.Entry

	scalars := []struct {
		event    string
		oldValue string
		newValue string
	}{
		{events.FirstNameChanged, current.FirstName, next.FirstName},
		{events.LastNameChanged, current.LastName, next.LastName},
		{events.EmailChanged, current.Email, next.Email},
	}
	for _, sc := range scalars {
		if sc.oldValue == sc.newValue {
			continue
		}
		oldValue, newValue := sc.oldValue, sc.newValue
		entries = append(entries, events.Simple(current.ID, sc.event, &oldValue, &newValue, actorID))
	}

	relations := []struct {
		event    string
		table    string
		oldID    *string
		oldLabel *string
		newID    *string
	}{
		{events.CompanyChanged, "companies", current.CompanyID, current.CompanyName, next.CompanyID},
		{events.StatusChanged, "statuses", current.StatusID, current.StatusName, next.StatusID},
		{events.CityChanged, "cities", current.CityID, current.CityName, next.CityID},
		{events.NationalityChanged, "nationalities", current.NationalityID, current.NationalityName, next.NationalityID},
		{events.MaritalStatusChanged, "marital_statuses", current.MaritalStatusID, current.MaritalStatusName, next.MaritalStatusID},
		{events.EducationLevelChanged, "education_levels", current.EducationLevelID, current.EducationLevelName, next.EducationLevelID},
		{events.GenderChanged, "genders", current.GenderID, current.GenderName, next.GenderID},
	}
	for _, rel := range relations {
		if !idChanged(rel.oldID, rel.newID) {
			continue
		}
		var newLabel *string
		if rel.newID != nil {
			label, err := s.store.LookupName(ctx, rel.table, *rel.newID)
			if err != nil {
				return nil, err
			}
			newLabel = &label
		}
		entries = append(entries, events.Relation(current.ID, rel.event, rel.oldLabel, rel.oldID, newLabel, rel.newID, actorID))
	}
	return entries, nil
}

func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func mergeID(current, incoming *string) *string {
	if incoming == nil {
		return current
	}
	if *incoming == "" {
		return nil
	}
	return incoming
}

func idChanged(oldID, newID *string) bool {
	switch {
	case oldID == nil && newID == nil:
		return false
	case oldID == nil || newID == nil:
		return true
	default:
		return *oldID != *newID
	}
}
