package util

import (
	"testing"
	"time"

	"leap_assessment_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		Email: "jon@example.com",
		Role:  model.RoleMember,
	}
	user.ID = 42

	token, err := GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleMember, claims.Role)
	assert.Equal(t, "jon@example.com", claims.Email)
	assert.False(t, claims.IsAdmin())
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "jon@example.com", Role: model.RoleMember}
	user.ID = 1

	token, err := GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "a-completely-different-secret-value")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "jon@example.com", Role: model.RoleAdmin}
	user.ID = 1

	token, err := GenerateJWT(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", testSecret)
	assert.Error(t, err)
}
