package referential

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type fakeStore struct {
	items         map[string]Item
	hasDependents bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]Item)}
}

func (f *fakeStore) List(_ context.Context, _ Kind) ([]Item, error) {
	var out []Item
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, _ Kind, id string) (Item, error) {
	item, ok := f.items[id]
	if !ok {
		return Item{}, pgx.ErrNoRows
	}
	return item, nil
}

func (f *fakeStore) NameTaken(_ context.Context, _ Kind, name, excludeID string) (bool, error) {
	for id, item := range f.items {
		if id != excludeID && strings.EqualFold(item.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Insert(_ context.Context, _ Kind, name, _ string) (Item, error) {
	item := Item{ID: "id-" + name, Name: name, CreatedAt: time.Now()}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeStore) Rename(_ context.Context, _ Kind, id, name, _ string) (bool, error) {
	item, ok := f.items[id]
	if !ok {
		return false, nil
	}
	item.Name = name
	f.items[id] = item
	return true, nil
}

func (f *fakeStore) SoftDelete(_ context.Context, _ Kind, id, _ string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeStore) HasActiveDependents(_ context.Context, _ Kind, _ string) (bool, error) {
	return f.hasDependents, nil
}

var testKind = Kinds[0]

func TestCreateTrimsAndRejectsDuplicates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	item, err := svc.Create(context.Background(), testKind, "  France  ", "actor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Name != "France" {
		t.Errorf("Name = %q, want France", item.Name)
	}

	if _, err := svc.Create(context.Background(), testKind, "france", "actor"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate create err = %v, want ErrNameTaken", err)
	}
}

func TestUpdateMergeSemantics(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	created, err := svc.Create(context.Background(), testKind, "Marie", "actor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Nil name leaves the row unchanged.
	same, err := svc.Update(context.Background(), testKind, created.ID, nil, "actor")
	if err != nil {
		t.Fatalf("Update with nil name: %v", err)
	}
	if same.Name != "Marie" {
		t.Errorf("Name = %q, want Marie", same.Name)
	}

	newName := "Marié(e)"
	renamed, err := svc.Update(context.Background(), testKind, created.ID, &newName, "actor")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if renamed.Name != "Marié(e)" {
		t.Errorf("Name = %q, want Marié(e)", renamed.Name)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	name := "x"
	if _, err := svc.Update(context.Background(), testKind, "missing", &name, "actor"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRejectsNameCollision(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	if _, err := svc.Create(context.Background(), testKind, "Paris", "actor"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	lyon, err := svc.Create(context.Background(), testKind, "Lyon", "actor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Paris"
	if _, err := svc.Update(context.Background(), testKind, lyon.ID, &name, "actor"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("err = %v, want ErrNameTaken", err)
	}
}

func TestDeleteBlockedByDependents(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	created, err := svc.Create(context.Background(), testKind, "Belgium", "actor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.hasDependents = true
	if err := svc.Delete(context.Background(), testKind, created.ID, "actor"); !errors.Is(err, ErrHasDependents) {
		t.Errorf("err = %v, want ErrHasDependents", err)
	}

	store.hasDependents = false
	if err := svc.Delete(context.Background(), testKind, created.ID, "actor"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), testKind, created.ID, "actor"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
