package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"roamers-service/internal/model"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("secret", "roamers-test", 24*time.Hour)
	user := &model.User{ID: 42, Email: "a@x.com", Role: model.RoleUser}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "roamers-test", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidate_Expired(t *testing.T) {
	tm := NewTokenManager("secret", "roamers-test", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tm.GenerateToken(&model.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwtv5.ErrTokenExpired))
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", "iss", time.Hour).GenerateToken(&model.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenManager("two", "iss", time.Hour).ValidateToken(token)
	require.ErrorIs(t, err, jwtv5.ErrTokenSignatureInvalid)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwtv5.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()}
	unsigned, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "iss", time.Hour).ValidateToken(unsigned)
	require.Error(t, err)
}

func TestClaims_UserID_Invalid(t *testing.T) {
	c := &Claims{RegisteredClaims: jwtv5.RegisteredClaims{Subject: "not-a-number"}}
	_, err := c.UserID()
	require.ErrorIs(t, err, ErrInvalidSubject)
}
