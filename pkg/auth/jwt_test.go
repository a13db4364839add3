package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(Config{Secret: "s3cret", Issuer: "idp", Audience: "property-api"})

	token, err := svc.Issue("user|123", "a@example.com", "Ada", time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user|123", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(Config{Secret: "s3cret", Issuer: "idp"})

	expired, err := svc.Issue("user|1", "", "", -time.Minute)
	require.NoError(t, err)

	other := NewJWTService(Config{Secret: "different", Issuer: "idp"})
	forged, err := other.Issue("user|1", "", "", time.Minute)
	require.NoError(t, err)

	wrongIssuer, err := NewJWTService(Config{Secret: "s3cret", Issuer: "elsewhere"}).Issue("user|1", "", "", time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":       expired,
		"bad signature": forged,
		"wrong issuer":  wrongIssuer,
		"garbage":       "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
