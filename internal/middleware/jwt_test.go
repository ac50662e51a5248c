package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/repository"
	"github.com/evergreen-hs/hallpass-api/internal/service"
)

type noCredentials struct{}

func (noCredentials) Load() (string, error) { return "", repository.ErrNotFound }
func (noCredentials) Save(string) error     { return nil }

func buildProtectedRouter(auth *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/audit", AdminJWT(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAdminJWT(t *testing.T) {
	auth := service.NewAuthService(noCredentials{}, nil, service.AuthConfig{
		JWTSecret:       "test-jwt-secret",
		DefaultPassword: "pass",
	})
	router := buildProtectedRouter(auth)

	login, err := auth.Login(dto.LoginRequest{Password: "pass"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + login.AccessToken, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/admin/audit", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestAdminJWTRejectsForeignSecret(t *testing.T) {
	issuer := service.NewAuthService(noCredentials{}, nil, service.AuthConfig{
		JWTSecret:       "issuer-secret",
		DefaultPassword: "pass",
	})
	verifier := service.NewAuthService(noCredentials{}, nil, service.AuthConfig{
		JWTSecret: "verifier-secret",
	})
	router := buildProtectedRouter(verifier)

	login, err := issuer.Login(dto.LoginRequest{Password: "pass"})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/admin/audit", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
