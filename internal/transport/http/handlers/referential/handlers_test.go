package referentialhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/referential"
	"paydesk/internal/transport/http/middleware"
)

type memStore struct {
	items         map[string]referential.Item
	hasDependents bool
}

func (m *memStore) List(_ context.Context, _ referential.Kind) ([]referential.Item, error) {
	var out []referential.Item
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, _ referential.Kind, id string) (referential.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return referential.Item{}, pgx.ErrNoRows
	}
	return item, nil
}

func (m *memStore) NameTaken(_ context.Context, _ referential.Kind, name, excludeID string) (bool, error) {
	for id, item := range m.items {
		if id != excludeID && strings.EqualFold(item.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Insert(_ context.Context, _ referential.Kind, name, _ string) (referential.Item, error) {
	item := referential.Item{ID: "id-" + name, Name: name, CreatedAt: time.Now()}
	m.items[item.ID] = item
	return item, nil
}

func (m *memStore) Rename(_ context.Context, _ referential.Kind, id, name, _ string) (bool, error) {
	item, ok := m.items[id]
	if !ok {
		return false, nil
	}
	item.Name = name
	m.items[id] = item
	return true, nil
}

func (m *memStore) SoftDelete(_ context.Context, _ referential.Kind, id, _ string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memStore) HasActiveDependents(_ context.Context, _ referential.Kind, _ string) (bool, error) {
	return m.hasDependents, nil
}

type staticSource struct {
	permissions map[string]struct{}
}

func (s *staticSource) PermissionsForUser(_ context.Context, _ string) (map[string]struct{}, error) {
	return s.permissions, nil
}

const testSecret = "handler-test-secret"

func newTestServer(t *testing.T, store *memStore, permissions ...string) http.Handler {
	t.Helper()
	permSet := make(map[string]struct{}, len(permissions))
	for _, perm := range permissions {
		permSet[perm] = struct{}{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	NewHandler(referential.NewService(store), middleware.NewGuard(&staticSource{permissions: permSet})).RegisterRoutes(r)
	return r
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLookupCrudFlow(t *testing.T) {
	store := &memStore{items: make(map[string]referential.Item)}
	srv := newTestServer(t, store, auth.PermReferentialRead, auth.PermReferentialWrite)

	// Create.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/countries", `{"name":"France"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data referential.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "France", created.Data.Name)

	// Duplicate name conflicts.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/countries", `{"name":"france"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Rename.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/countries/"+created.Data.ID, `{"name":"Belgium"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Delete returns 204 and a second delete 404.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/countries/"+created.Data.ID, ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/countries/"+created.Data.ID, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLookupDeleteBlockedByDependents(t *testing.T) {
	store := &memStore{items: make(map[string]referential.Item)}
	srv := newTestServer(t, store, auth.PermReferentialRead, auth.PermReferentialWrite)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/cities", `{"name":"Paris"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data referential.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	store.hasDependents = true
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/cities/"+created.Data.ID, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "in_use")
}

func TestLookupValidation(t *testing.T) {
	store := &memStore{items: make(map[string]referential.Item)}
	srv := newTestServer(t, store, auth.PermReferentialWrite)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/genders", `{"name":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestLookupRequiresPermission(t *testing.T) {
	store := &memStore{items: make(map[string]referential.Item)}

	// Read-only caller cannot write.
	srv := newTestServer(t, store, auth.PermReferentialRead)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/statuses", `{"name":"Active"}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin.system satisfies the read filter through the any-mode guard.
	srv = newTestServer(t, store, auth.PermSystemAdmin)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/statuses", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLookupRejectsAnonymous(t *testing.T) {
	store := &memStore{items: make(map[string]referential.Item)}
	srv := newTestServer(t, store, auth.PermReferentialRead)

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
