package company

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/domain/events"
	"paydesk/internal/platform/querier"
)

var (
	ErrNotFound     = errors.New("company not found")
	ErrNameTaken    = errors.New("company name already in use")
	ErrHasEmployees = errors.New("company has active employees")
	ErrNameRequired = errors.New("company name is required")
)

type store interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id string) (Company, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Insert(ctx context.Context, q querier.Querier, name string, cityID, countryID, statusID *string, actorID string) (string, error)
	Update(ctx context.Context, q querier.Querier, id, name string, cityID, countryID, statusID *string, actorID string) (bool, error)
	SoftDelete(ctx context.Context, q querier.Querier, id, actorID string) (bool, error)
	HasActiveEmployees(ctx context.Context, id string) (bool, error)
	LookupName(ctx context.Context, table, id string) (string, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service struct {
	store  store
	events *events.Service
}

func NewService(store store, eventLog *events.Service) *Service {
	return &Service{store: store, events: eventLog}
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Company, error) {
	c, err := s.store.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

// Create inserts the company and its Company_Created event in one
// transaction; a failed audit write rolls the insert back.
func (s *Service) Create(ctx context.Context, in Input, actorID string) (Company, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Company{}, ErrNameRequired
	}
	name := strings.TrimSpace(*in.Name)

	taken, err := s.store.NameTaken(ctx, name, "")
	if err != nil {
		return Company{}, err
	}
	if taken {
		return Company{}, ErrNameTaken
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Company{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.store.Insert(ctx, tx, name, normalizeID(in.CityID), normalizeID(in.CountryID), normalizeID(in.StatusID), actorID)
	if err != nil {
		return Company{}, err
	}
	if err := s.events.Record(ctx, tx, events.KindCompany,
		events.Simple(id, events.CompanyCreated, nil, &name, actorID)); err != nil {
		return Company{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Company{}, err
	}

	return s.Get(ctx, id)
}

// Update applies merge semantics and appends one event per changed field,
// atomically with the row update.
func (s *Service) Update(ctx context.Context, id string, in Input, actorID string) (Company, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}

	name := current.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return Company{}, ErrNameRequired
		}
	}
	cityID := mergeID(current.CityID, in.CityID)
	countryID := mergeID(current.CountryID, in.CountryID)
	statusID := mergeID(current.StatusID, in.StatusID)

	if name != current.Name {
		taken, err := s.store.NameTaken(ctx, name, id)
		if err != nil {
			return Company{}, err
		}
		if taken {
			return Company{}, ErrNameTaken
		}
	}

	entries, err := s.changeEntries(ctx, current, name, cityID, countryID, statusID, actorID)
	if err != nil {
		return Company{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Company{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := s.store.Update(ctx, tx, id, name, cityID, countryID, statusID, actorID)
	if err != nil {
		return Company{}, err
	}
	if !updated {
		return Company{}, ErrNotFound
	}
	for _, entry := range entries {
		if err := s.events.Record(ctx, tx, events.KindCompany, entry); err != nil {
			return Company{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Company{}, err
	}

	return s.Get(ctx, id)
}

// Delete soft-deletes the company unless active employees remain.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	blocked, err := s.store.HasActiveEmployees(ctx, id)
	if err != nil {
		return err
	}
	if blocked {
		return ErrHasEmployees
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
	if err := s.events.Record(ctx, tx, events.KindCompany,
		events.Simple(id, events.CompanyDeleted, &current.Name, nil, actorID)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) changeEntries(ctx context.Context, current Company, name string, cityID, countryID, statusID *string, actorID string) ([]events.Entry, error) {
	var entries []events.Entry

	if name != current.Name {
		oldName := current.Name
		entries = append(entries, events.Simple(current.ID, events.CompanyNameChanged, &oldName, &name, actorID))
	}

	relations := []struct {
		event    string
		table    string
		oldID    *string
		oldLabel *string
		newID    *string
	}{
		{events.CompanyCityChanged, "cities", current.CityID, current.CityName, cityID},
		{events.CompanyCountryChanged, "countries", current.CountryID, current.CountryName, countryID},
		{events.CompanyStatusChanged, "statuses", current.StatusID, current.StatusName, statusID},
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
