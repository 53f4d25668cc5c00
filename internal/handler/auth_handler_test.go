package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/middleware"
)

func TestLogin(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := perform(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "tok", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])

	rec = perform(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, rec)["code"])

	rec = perform(t, r, http.MethodPost, "/api/auth/login", "[]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuardProtectsAPIButNotLoginOrHealth(t *testing.T) {
	deps := newTestDeps()
	deps.guard = middleware.JWT(fakeAuthSrv{token: "tok"})
	r := deps.router()

	rec := perform(t, r, http.MethodGet, "/api/students", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode(t, rec)["username"])
}

func TestMeWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(fakeAuthSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
