package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("secret hashing failed")

// SecretHasher hashes and checks token secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher using bcrypt; out-of-range costs fall back
// to the library default.
func NewBcryptHasher(cost int) SecretHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}
