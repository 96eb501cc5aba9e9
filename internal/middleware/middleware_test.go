package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserService struct {
	service.UserService
	users      map[uint]*model.User
	revoked    map[string]bool
	profileErr error
}

func (s *stubUserService) GetProfile(userID uint) (*model.User, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, service.ErrNotFound
}

func (s *stubUserService) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func newAuthRouter(t *testing.T) (*gin.Engine, *token.JWTManager, *stubUserService) {
	t.Helper()
	jwtManager := token.NewJWTManager("middleware-secret", 1, 7)
	users := &stubUserService{
		users: map[uint]*model.User{
			1: {ID: 1, UID: "g-1", Role: model.UserRoleUser},
			2: {ID: 2, UID: "g-2", Role: model.UserRoleAdmin},
		},
		revoked: map[string]bool{},
	}
	r := gin.New()
	r.Use(RequestLogger())
	authed := r.Group("/api", AuthMiddleware(jwtManager, users))
	authed.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"uid": u.UID, "jti": claims.ID})
	})
	authed.GET("/admin", AdminAuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtManager, users
}

func doRequest(r http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingOrMalformed(t *testing.T) {
	r, jwtManager, _ := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "Bearer not-a-jwt").Code)

	refresh, err := jwtManager.GenerateRefreshToken(1, "g-1", model.UserRoleUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "Bearer "+refresh).Code)

	ghost, err := jwtManager.GenerateToken(42, "g-42", model.UserRoleUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "Bearer "+ghost).Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, jwtManager, users := newAuthRouter(t)
	access, err := jwtManager.GenerateToken(1, "g-1", model.UserRoleUser)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/me", "Bearer "+access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"g-1"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	claims, err := jwtManager.VerifyToken(access)
	require.NoError(t, err)
	users.revoked[claims.ID] = true
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/api/me", "Bearer "+access).Code)
}

func TestAuthMiddlewareStorageFailureIsServerError(t *testing.T) {
	r, jwtManager, users := newAuthRouter(t)
	access, err := jwtManager.GenerateToken(1, "g-1", model.UserRoleUser)
	require.NoError(t, err)

	users.profileErr = fmt.Errorf("%w: connection refused", service.ErrStorage)
	w := doRequest(r, http.MethodGet, "/api/me", "Bearer "+access)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "用户不存在")
}

func TestAdminAuthMiddleware(t *testing.T) {
	r, jwtManager, _ := newAuthRouter(t)
	userToken, err := jwtManager.GenerateToken(1, "g-1", model.UserRoleUser)
	require.NoError(t, err)
	adminToken, err := jwtManager.GenerateToken(2, "g-2", model.UserRoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/admin", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodGet, "/api/admin", "Bearer "+adminToken).Code)
}

func TestRequestLoggerKeepsIncomingRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "pong", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/api/v1/water-tips", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/water-tips", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
