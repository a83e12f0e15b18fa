package company

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/domain/events"
	"paydesk/internal/platform/querier"
)

// fakeStore backs service tests; lookup labels come from the names map keyed
// by "table/id".
type fakeStore struct {
	names map[string]string
}

func (f *fakeStore) List(context.Context) ([]Company, error) { return nil, nil }
func (f *fakeStore) Get(context.Context, string) (Company, error) {
	return Company{}, pgx.ErrNoRows
}
func (f *fakeStore) NameTaken(context.Context, string, string) (bool, error) { return false, nil }
func (f *fakeStore) Insert(context.Context, querier.Querier, string, *string, *string, *string, string) (string, error) {
	return "", errors.New("not used")
}
func (f *fakeStore) Update(context.Context, querier.Querier, string, string, *string, *string, *string, string) (bool, error) {
	return false, errors.New("not used")
}
func (f *fakeStore) SoftDelete(context.Context, querier.Querier, string, string) (bool, error) {
	return false, errors.New("not used")
}
func (f *fakeStore) HasActiveEmployees(context.Context, string) (bool, error) { return false, nil }
func (f *fakeStore) LookupName(_ context.Context, table, id string) (string, error) {
	name, ok := f.names[table+"/"+id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return name, nil
}
func (f *fakeStore) Begin(context.Context) (pgx.Tx, error) { return nil, errors.New("not used") }

func ptr(s string) *string { return &s }

func baseCompany() Company {
	return Company{
		ID:          "comp-1",
		Name:        "Acme",
		CityID:      ptr("ci1"),
		CityName:    ptr("Paris"),
		CountryID:   ptr("co1"),
		CountryName: ptr("France"),
	}
}

func TestChangeEntriesUnchanged(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	current := baseCompany()

	entries, err := svc.changeEntries(context.Background(), current, current.Name, current.CityID, current.CountryID, current.StatusID, "actor")
	if err != nil {
		t.Fatalf("changeEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestChangeEntriesNameChange(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	current := baseCompany()

	entries, err := svc.changeEntries(context.Background(), current, "Globex", current.CityID, current.CountryID, current.StatusID, "actor")
	if err != nil {
		t.Fatalf("changeEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Name != events.CompanyNameChanged {
		t.Errorf("Name = %q, want %q", got.Name, events.CompanyNameChanged)
	}
	if got.OldValue == nil || *got.OldValue != "Acme" {
		t.Errorf("OldValue = %v, want Acme", got.OldValue)
	}
	if got.NewValue == nil || *got.NewValue != "Globex" {
		t.Errorf("NewValue = %v, want Globex", got.NewValue)
	}
	if got.OldValueID != nil || got.NewValueID != nil {
		t.Error("name change must not carry value ids")
	}
}

func TestChangeEntriesRelationChange(t *testing.T) {
	svc := NewService(&fakeStore{names: map[string]string{"cities/ci2": "Lyon"}}, nil)
	current := baseCompany()

	entries, err := svc.changeEntries(context.Background(), current, current.Name, ptr("ci2"), current.CountryID, current.StatusID, "actor")
	if err != nil {
		t.Fatalf("changeEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Name != events.CompanyCityChanged {
		t.Errorf("Name = %q, want %q", got.Name, events.CompanyCityChanged)
	}
	if got.OldValue == nil || *got.OldValue != "Paris" {
		t.Errorf("OldValue = %v, want Paris", got.OldValue)
	}
	if got.OldValueID == nil || *got.OldValueID != "ci1" {
		t.Errorf("OldValueID = %v, want ci1", got.OldValueID)
	}
	if got.NewValue == nil || *got.NewValue != "Lyon" {
		t.Errorf("NewValue = %v, want Lyon", got.NewValue)
	}
	if got.NewValueID == nil || *got.NewValueID != "ci2" {
		t.Errorf("NewValueID = %v, want ci2", got.NewValueID)
	}
}

func TestChangeEntriesRelationCleared(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	current := baseCompany()

	entries, err := svc.changeEntries(context.Background(), current, current.Name, current.CityID, nil, current.StatusID, "actor")
	if err != nil {
		t.Fatalf("changeEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Name != events.CompanyCountryChanged {
		t.Errorf("Name = %q, want %q", got.Name, events.CompanyCountryChanged)
	}
	if got.OldValue == nil || *got.OldValue != "France" {
		t.Errorf("OldValue = %v, want France", got.OldValue)
	}
	if got.OldValueID == nil || *got.OldValueID != "co1" {
		t.Errorf("OldValueID = %v, want co1", got.OldValueID)
	}
	if got.NewValue != nil || got.NewValueID != nil {
		t.Error("cleared relation must have a nil new side")
	}
}
