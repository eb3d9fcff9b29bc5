package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestStreamTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, 5*time.Minute)

	token, expiresIn, err := svc.GenerateStreamToken("mgr-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 300, expiresIn)

	managerID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", managerID)
}

func TestValidateStreamTokenRejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, 5*time.Minute).(*JWTService)

	// a token that verifies but carries the wrong type claim
	_, tokenString, err := svc.tokenAuth.Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"type":        "access",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(tokenString)
	assert.Error(t, err)
}

func TestValidateStreamTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(testSecret, 5*time.Minute).(*JWTService)

	// expired beyond the 30s acceptable skew
	_, tokenString, err := svc.tokenAuth.Encode(map[string]interface{}{
		"manager_id": "mgr-1",
		"type":       "stream",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(tokenString)
	assert.Error(t, err)
}

func TestValidateStreamTokenRejectsWrongSecret(t *testing.T) {
	minter := NewJWTService("another-secret", 5*time.Minute)
	verifier := NewJWTService(testSecret, 5*time.Minute)

	token, _, err := minter.GenerateStreamToken("mgr-1")
	require.NoError(t, err)

	_, err = verifier.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestValidateStreamTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(testSecret, 5*time.Minute)

	_, err := svc.ValidateStreamToken("not-a-token")
	assert.Error(t, err)
}
