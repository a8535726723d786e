package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("user-1", "asha@iiitdwd.ac.in", "participant", testSecret, SessionTokenDuration)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@iiitdwd.ac.in", claims.Email)
	assert.Equal(t, "participant", claims.Role)
	assert.NotEmpty(t, claims.JTI)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("user-1", "asha@iiitdwd.ac.in", "participant", testSecret, SessionTokenDuration)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("user-1", "asha@iiitdwd.ac.in", "participant", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.Error(t, err)
}

func TestJTIUniquePerToken(t *testing.T) {
	first, err := GenerateSessionToken("user-1", "a@iiitdwd.ac.in", "participant", testSecret, SessionTokenDuration)
	require.NoError(t, err)
	second, err := GenerateSessionToken("user-1", "a@iiitdwd.ac.in", "participant", testSecret, SessionTokenDuration)
	require.NoError(t, err)

	firstJTI, err := ExtractJTI(first)
	require.NoError(t, err)
	secondJTI, err := ExtractJTI(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstJTI, secondJTI)
}

func TestEmailTokenRoundTrip(t *testing.T) {
	token, err := GenerateEmailToken("user-1", "asha@iiitdwd.ac.in", PurposeVerifyEmail, testSecret, VerificationTokenDuration)
	require.NoError(t, err)

	claims, err := ValidateEmailToken(token, PurposeVerifyEmail, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "asha@iiitdwd.ac.in", claims.Email)
}

func TestEmailTokenPurposeMismatch(t *testing.T) {
	token, err := GenerateEmailToken("user-1", "asha@iiitdwd.ac.in", PurposeVerifyEmail, testSecret, VerificationTokenDuration)
	require.NoError(t, err)

	_, err = ValidateEmailToken(token, PurposePasswordReset, testSecret)
	assert.Error(t, err, "a verification token must not reset passwords")
}
