package security

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParseToken(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	id := uuid.New()

	token, hash, err := IssueToken(id, hasher)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, id.String()+"."))
	assert.NotContains(t, hash, token)

	gotID, secret, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.NoError(t, hasher.Compare(hash, secret))
	assert.Error(t, hasher.Compare(hash, secret+"x"))
}

func TestParseToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "abc", "not-a-uuid.secret", uuid.NewString() + "."} {
		_, _, err := ParseToken(token)
		assert.ErrorIs(t, err, ErrMalformedToken, token)
	}
}
