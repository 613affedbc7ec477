package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hris/internal/domain/auth"
)

type permStub struct {
	allowed map[string]bool
}

func (p permStub) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	return p.allowed[permission], nil
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", seen)
}

func TestAuthInjectsUserFromBearerToken(t *testing.T) {
	const secret = "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", RoleID: "r1", RoleName: auth.RoleHR}, time.Hour)
	require.NoError(t, err)

	var got auth.UserContext
	var ok bool
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, auth.RoleHR, got.RoleName)
}

func TestAuthIgnoresInvalidToken(t *testing.T) {
	var ok bool
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRequirePermission(t *testing.T) {
	store := permStub{allowed: map[string]bool{auth.PermLeaveRead: true}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withUser := func(r *http.Request) *http.Request {
		ctx := context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{UserID: "u1", RoleID: "r1", RoleName: auth.RoleEmployee})
		return r.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	RequirePermission(auth.PermLeaveRead, store)(next).ServeHTTP(rec, withUser(httptest.NewRequest("GET", "/", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequirePermission(auth.PermAuditRead, store)(next).ServeHTTP(rec, withUser(httptest.NewRequest("GET", "/", nil)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	RequirePermission(auth.PermLeaveRead, store)(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
