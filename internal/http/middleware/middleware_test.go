package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelbooking/internal/auth"
	"travelbooking/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-secret")

func init() { gin.SetMode(gin.TestMode) }

func protected(roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(testSecret), RequireRoles(roles...), func(c *gin.Context) {
		rc := Caller(c)
		c.JSON(http.StatusOK, gin.H{"user_id": rc.UserID, "role": rc.Role, "request_id": rc.RequestID})
	})
	return r
}

func bearer(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := auth.Issue(testSecret, userID, role, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	protected(domain.RoleCustomer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "request_id")
}

func TestAuthInvalidToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	protected(domain.RoleCustomer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesForbidden(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, 9, domain.RolePartner))
	protected(domain.RoleCustomer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)
}

func TestCallerFromToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, 9, domain.RoleCustomer))
	req.Header.Set("X-Request-ID", "rid-123")
	protected(domain.RoleCustomer, domain.RoleAdmin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":9,"role":"customer","request_id":"rid-123"}`, w.Body.String())
	assert.Equal(t, "rid-123", w.Header().Get("X-Request-ID"))
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}
