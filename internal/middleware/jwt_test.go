package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/service"
)

func jwtTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(nil, nil, service.AuthConfig{Secret: "test_secret", Expiration: time.Hour})

	r := gin.New()
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r, authSvc
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	r, authSvc := jwtTestRouter(t)

	res, err := authSvc.IssueToken(models.TokenRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	r, _ := jwtTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), `"error":true`)
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	r, _ := jwtTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRejectsForgedToken(t *testing.T) {
	r, _ := jwtTestRouter(t)

	forger := service.NewAuthService(nil, nil, service.AuthConfig{Secret: "other_secret", Expiration: time.Hour})
	res, err := forger.IssueToken(models.TokenRequest{Email: "mallory@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
