package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/middleware"
	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/service"
)

type userServiceMock struct {
	registerResult *service.RegisterResult
	hasRole        bool
	hasRoleErr     error
	grantErr       error
	deleteErr      error
}

func (m *userServiceMock) Register(_ context.Context, _ service.RegisterUserRequest) (*service.RegisterResult, error) {
	return m.registerResult, nil
}

func (m *userServiceMock) List(_ context.Context, _ models.UserFilter) ([]models.User, *models.Pagination, error) {
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *userServiceMock) ListInstructors(_ context.Context) ([]models.User, error) {
	return nil, nil
}

func (m *userServiceMock) HasRole(_ context.Context, _, _ string, _ models.UserRole) (bool, error) {
	return m.hasRole, m.hasRoleErr
}

func (m *userServiceMock) GrantRole(_ context.Context, _ string, _ models.UserRole) error {
	return m.grantErr
}

func (m *userServiceMock) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

func TestUserHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{registerResult: &service.RegisterResult{Message: "user created"}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.RegisterUserRequest{Email: "alice@example.com", Name: "Alice"})
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user created")
}

func TestUserHandlerRegisterInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"error":true`)
}

func TestUserHandlerIsAdminSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{hasRole: true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/admin/root@example.com", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "root@example.com"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "root@example.com"})

	h.IsAdmin(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"admin":true`)
}

func TestUserHandlerIsAdminOtherIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{hasRole: false})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/admin/root@example.com", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "root@example.com"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "alice@example.com"})

	h.IsAdmin(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"admin":false`)
}

func TestUserHandlerIsAdminWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/admin/root@example.com", nil)
	c.Request = req

	h.IsAdmin(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandlerIsInstructor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{hasRole: true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/instructor/teach@example.com", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "teach@example.com"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "teach@example.com"})

	h.IsInstructor(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"instructor":true`)
}

func TestUserHandlerGrantAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(&userServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/users/admin/user-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "user-1"}}

	h.GrantAdmin(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
