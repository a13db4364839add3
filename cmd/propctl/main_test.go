package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/pkg/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlansTable(t *testing.T) {
	out, err := run(t, "plans")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "starter"))
	assert.Contains(t, lines[1], "29.00")
	assert.Contains(t, lines[3], "unlimited")
}

func TestPlansJSON(t *testing.T) {
	out, err := run(t, "plans", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "growth"`)
}

func TestTokenIsVerifiable(t *testing.T) {
	t.Setenv("PROPERTY_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("PROPERTY_AUTH_ISSUER", "")
	t.Setenv("PROPERTY_AUTH_AUDIENCE", "")

	out, err := run(t, "token", "--subject", "auth0|42", "--email", "ann@example.com")
	require.NoError(t, err)

	claims, err := auth.NewJWTService(auth.Config{Secret: "test-secret"}).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "auth0|42", claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestTokenRequiresSubject(t *testing.T) {
	_, err := run(t, "token")
	assert.Error(t, err)
}

func TestMarkOverdueRejectsBadOrg(t *testing.T) {
	t.Setenv("PROPERTY_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("PROPERTY_DATABASE_DRIVER", "memory")

	_, err := run(t, "invoices", "mark-overdue", "--org", "nope")
	assert.ErrorContains(t, err, "invalid --org")
}

func TestMarkOverdueAllOrganizations(t *testing.T) {
	t.Setenv("PROPERTY_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("PROPERTY_DATABASE_DRIVER", "memory")

	out, err := run(t, "invoices", "mark-overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "marked 0 invoice(s) overdue")
}
