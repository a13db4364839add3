package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrMalformedToken = errors.New("malformed token")

const secretBytes = 24

// IssueToken returns a bearer token "<id>.<secret>" and the bcrypt hash of
// the secret to persist. Only the hash is stored.
func IssueToken(id uuid.UUID, hasher SecretHasher) (token, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)
	hash, err = hasher.Hash(secret)
	if err != nil {
		return "", "", err
	}
	return id.String() + "." + secret, hash, nil
}

// ParseToken splits a token into its record id and secret.
func ParseToken(token string) (uuid.UUID, string, error) {
	idPart, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return uuid.Nil, "", ErrMalformedToken
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", ErrMalformedToken
	}
	return id, secret, nil
}
