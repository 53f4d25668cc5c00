package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("jai-swaminarayan"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, nil, AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		Secret:            "test-secret",
		Expiry:            time.Hour,
		Issuer:            "sabha-admin-api",
	})
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "jai-swaminarayan"})
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "sabha-admin-api", claims.Issuer)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err))

	_, err = svc.Login(ctx, models.LoginRequest{Username: "root", Password: "jai-swaminarayan"})
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err))

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "jai-swaminarayan"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err), "expired")
	svc.now = time.Now

	other := NewAuthService(nil, nil, AuthConfig{Secret: "another-secret", Issuer: "sabha-admin-api"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err), "wrong secret")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{Username: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err), "unsigned")

	_, err = svc.ValidateToken("not-a-token")
	assert.Equal(t, http.StatusUnauthorized, errorStatus(err), "garbage")
}
