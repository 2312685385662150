package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret!"))
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "ada@example.com", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	sub, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sub)
}

func TestParseAccessTokenRejects(t *testing.T) {
	valid, err := NewAccessToken("secret", "ada@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := NewAccessToken("secret", "ada@example.com", -time.Minute)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ada@example.com"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "ada@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		raw    string
	}{
		"empty":        {"secret", ""},
		"garbage":      {"secret", "not.a.jwt"},
		"wrong secret": {"other", valid.Token},
		"expired":      {"secret", expired.Token},
		"missing exp":  {"secret", noExp},
		"missing sub":  {"secret", noSub},
		"other algo":   {"secret", hs512},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(tc.secret, tc.raw)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}
