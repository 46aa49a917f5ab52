package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/repository"
	"github.com/noah-isme/kids-academy-api/internal/service"
)

func routerTestSetup(t *testing.T) (*gin.Engine, *service.AuthService, sqlmock.Sqlmock, func()) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	userRepo := repository.NewUserRepository(sqlx.NewDb(db, "sqlmock"))

	authSvc := service.NewAuthService(nil, nil, service.AuthConfig{Secret: "test_secret", Expiration: time.Hour})

	handlers := Handlers{
		Auth:       NewAuthHandler(authSvc),
		Users:      NewUserHandler(&userServiceMock{}),
		Classes:    NewClassHandler(&classServiceMock{}),
		Selections: NewSelectionHandler(&selectionServiceMock{}),
		Payments:   NewPaymentHandler(&paymentServiceMock{}),
		Metrics:    NewMetricsHandler(service.NewMetricsService(), nil),
	}

	r := gin.New()
	RegisterRoutes(r, handlers, authSvc, userRepo)
	return r, authSvc, mock, func() { db.Close() }
}

func bearerFor(t *testing.T, authSvc *service.AuthService, email string) string {
	res, err := authSvc.IssueToken(models.TokenRequest{Email: email})
	require.NoError(t, err)
	return "Bearer " + res.Token
}

func TestRouterPublicCatalogNeedsNoAuth(t *testing.T) {
	r, _, _, cleanup := routerTestSetup(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/popularClass", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSelectionsRequireAuth(t *testing.T) {
	r, _, _, cleanup := routerTestSetup(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/selectedClass", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterAdminRouteRejectsStudent(t *testing.T) {
	r, authSvc, mock, cleanup := routerTestSetup(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(models.RoleStudent))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", bearerFor(t, authSvc, "alice@example.com"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterAdminRouteAdmitsAdmin(t *testing.T) {
	r, authSvc, mock, cleanup := routerTestSetup(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(models.RoleAdmin))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", bearerFor(t, authSvc, "root@example.com"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterInstructorRouteRejectsStudent(t *testing.T) {
	r, authSvc, mock, cleanup := routerTestSetup(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(models.RoleStudent))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/allClass/instructor", nil)
	req.Header.Set("Authorization", bearerFor(t, authSvc, "alice@example.com"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterGrantAdminRecordsAudit(t *testing.T) {
	r, authSvc, mock, cleanup := routerTestSetup(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(models.RoleAdmin))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/users/admin/user-1", nil)
	req.Header.Set("Authorization", bearerFor(t, authSvc, "root@example.com"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterHealth(t *testing.T) {
	r, _, _, cleanup := routerTestSetup(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
