package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	maker := NewTokenMaker("s3cret")

	token, refresh, err := maker.GenerateAllTokens("sari@example.com", "Sari", "u1", "CASHIER")
	require.NoError(t, err)
	assert.NotEqual(t, token, refresh)

	claims, err := maker.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Uid)
	assert.Equal(t, "CASHIER", claims.User_role)
	assert.Equal(t, "Sari", claims.Name)
}

func TestValidateTokenRejects(t *testing.T) {
	maker := NewTokenMaker("s3cret")
	token, _, err := maker.GenerateAllTokens("a@b.c", "A", "u1", "ADMIN")
	require.NoError(t, err)

	_, err = NewTokenMaker("other").ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = maker.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, _, err := NewTokenMaker("s3cret").WithTTL(-time.Minute).GenerateAllTokens("a@b.c", "A", "u1", "ADMIN")
	require.NoError(t, err)
	_, err = maker.ValidateToken(expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Contains(t, err.Error(), "expired")
}

func TestPasswords(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)

	ok, msg := VerifyPassword("rahasia123", hash)
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = VerifyPassword("wrong", hash)
	assert.False(t, ok)
	assert.Equal(t, "email or password is incorrect", msg)
}
