package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewJWT("test-secret")
	require.NoError(t, err)
	account := uuid.New()

	token, err := issuer.Issue(account, 15*time.Minute)
	require.NoError(t, err)

	got, err := issuer.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestVerifyRejects(t *testing.T) {
	issuer, err := NewJWT("test-secret")
	require.NoError(t, err)
	other, err := NewJWT("other-secret")
	require.NoError(t, err)
	account := uuid.New()

	expired, err := issuer.Issue(account, -time.Minute)
	require.NoError(t, err)

	foreign, err := other.Issue(account, time.Minute)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": account.String()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone@example.com",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong secret", foreign},
		{"no expiry", noExpiry},
		{"subject is not a uuid", badSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewJWTRequiresSecret(t *testing.T) {
	_, err := NewJWT("")
	assert.ErrorIs(t, err, ErrMissingKey)
}
