package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BCryptCost:                  bcrypt.MinCost,
	}
}

func newTestService(t *testing.T, secret string, now time.Time) JWTService {
	t.Helper()
	svc, err := NewJWTService(testConfig(secret), WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testConfig("too-short"))
	assert.Error(t, err)

	cfg := testConfig(testSecret)
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	issuer := newTestService(t, testSecret, fixedTime)
	access, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     JWTService
		token   string
		wantErr error
	}{
		{"valid token", issuer, access, nil},
		{"within clock skew", newTestService(t, testSecret, fixedTime.Add(time.Hour+time.Minute)), access, nil},
		{"expired token", newTestService(t, testSecret, fixedTime.Add(2*time.Hour)), access, ErrExpiredToken},
		{"issued in the future", newTestService(t, testSecret, fixedTime.Add(-time.Hour)), access, ErrTokenNotYetValid},
		{"invalid signature", newTestService(t, wrongSecret, fixedTime), access, ErrInvalidToken},
		{"malformed token", issuer, "this.is.not.a.valid.jwt.token", ErrInvalidToken},
		{"unsigned token", issuer, noneToken, ErrInvalidToken},
		{"refresh token used as access", issuer, refresh, ErrWrongTokenType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	issuer := newTestService(t, testSecret, fixedTime)
	access, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     JWTService
		token   string
		wantErr error
	}{
		{"valid refresh token", issuer, refresh, nil},
		{"still valid after access lifetime", newTestService(t, testSecret, fixedTime.Add(23*time.Hour)), refresh, nil},
		{"expired", newTestService(t, testSecret, fixedTime.Add(25*time.Hour)), refresh, ErrExpiredRefreshToken},
		{"invalid signature", newTestService(t, wrongSecret, fixedTime), refresh, ErrInvalidRefreshToken},
		{"garbage", issuer, "garbage", ErrInvalidRefreshToken},
		{"access token used as refresh", issuer, access, ErrWrongTokenType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateRefreshToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		})
	}
}

func TestGenerateTokenPair(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	pair, err := svc.GenerateTokenPair(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	_, err = svc.ValidateToken(context.Background(), pair.Access)
	assert.NoError(t, err)
	_, err = svc.ValidateRefreshToken(context.Background(), pair.Refresh)
	assert.NoError(t, err)
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExpired(ErrExpiredToken))
	assert.True(t, IsExpired(ErrExpiredRefreshToken))
	assert.False(t, IsExpired(ErrInvalidToken))
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Compare(string(hash), "password123"))
	assert.ErrorIs(t, v.Compare(string(hash), "password124"), ErrPasswordMismatch)

	err = v.Compare("not-a-hash", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
