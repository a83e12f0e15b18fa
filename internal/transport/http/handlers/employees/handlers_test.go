package employeeshandler

import (
	"context"
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
	"paydesk/internal/domain/employee"
	"paydesk/internal/platform/querier"
	"paydesk/internal/transport/http/middleware"
)

// emptyStore has no rows; handler tests below only exercise paths that stop
// before any write.
type emptyStore struct{}

func (emptyStore) List(context.Context, string, int, int) ([]employee.Employee, error) {
	return nil, nil
}
func (emptyStore) Get(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, pgx.ErrNoRows
}
func (emptyStore) EmailTaken(context.Context, string, string) (bool, error) { return false, nil }
func (emptyStore) Insert(context.Context, querier.Querier, employee.Employee, string) (string, error) {
	return "", pgx.ErrNoRows
}
func (emptyStore) Update(context.Context, querier.Querier, employee.Employee, string) (bool, error) {
	return false, nil
}
func (emptyStore) SoftDelete(context.Context, querier.Querier, string, string) (bool, error) {
	return false, nil
}
func (emptyStore) LookupName(context.Context, string, string) (string, error) {
	return "", pgx.ErrNoRows
}
func (emptyStore) Begin(context.Context) (pgx.Tx, error) { return nil, pgx.ErrTxClosed }
func (emptyStore) ListContracts(context.Context, string) ([]employee.Contract, error) {
	return nil, nil
}
func (emptyStore) GetContract(context.Context, string, string) (employee.Contract, error) {
	return employee.Contract{}, pgx.ErrNoRows
}
func (emptyStore) InsertContract(context.Context, querier.Querier, employee.Contract, string) (string, error) {
	return "", pgx.ErrNoRows
}
func (emptyStore) UpdateContract(context.Context, querier.Querier, employee.Contract, string) (bool, error) {
	return false, nil
}
func (emptyStore) ListSalaries(context.Context, string) ([]employee.Salary, error) { return nil, nil }
func (emptyStore) GetSalary(context.Context, string, string) (employee.Salary, error) {
	return employee.Salary{}, pgx.ErrNoRows
}
func (emptyStore) LatestSalary(context.Context, string) (employee.Salary, error) {
	return employee.Salary{}, pgx.ErrNoRows
}
func (emptyStore) InsertSalary(context.Context, querier.Querier, employee.Salary, string) (string, error) {
	return "", pgx.ErrNoRows
}
func (emptyStore) UpdateSalary(context.Context, querier.Querier, employee.Salary, string) (bool, error) {
	return false, nil
}

type staticSource struct {
	permissions map[string]struct{}
}

func (s *staticSource) PermissionsForUser(_ context.Context, _ string) (map[string]struct{}, error) {
	return s.permissions, nil
}

const testSecret = "handler-test-secret"

func newTestServer(t *testing.T, permissions ...string) http.Handler {
	t.Helper()
	permSet := make(map[string]struct{}, len(permissions))
	for _, perm := range permissions {
		permSet[perm] = struct{}{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	svc := employee.NewService(emptyStore{}, nil)
	NewHandler(svc, nil, nil, middleware.NewGuard(&staticSource{permissions: permSet})).RegisterRoutes(r)
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

func TestUpdateContractRejectsOversizedType(t *testing.T) {
	srv := newTestServer(t, auth.PermEmployeesWrite)

	body := `{"contractType":"` + strings.Repeat("x", 51) + `"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/employees/emp-1/contracts/con-1", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestUpdateContractMissingRowIs404(t *testing.T) {
	srv := newTestServer(t, auth.PermEmployeesWrite)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/employees/emp-1/contracts/con-1", `{"contractType":"CDI"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestUpdateContractRequiresWritePermission(t *testing.T) {
	srv := newTestServer(t, auth.PermEmployeesRead)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(t, http.MethodPut, "/employees/emp-1/contracts/con-1", `{"contractType":"CDI"}`))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
