// Package auth verifies identity-provider tokens. The provider signs HS256
// JWTs whose subject is the caller's stable identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload we rely on.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// Verifier checks signatures and standard claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// JWTService verifies identity tokens and can mint them for local use.
type JWTService struct {
	secret []byte
	issuer string
	aud    string
}

func NewJWTService(cfg Config) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), issuer: cfg.Issuer, aud: cfg.Audience}
}

func (s *JWTService) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.aud != "" {
		opts = append(opts, jwt.WithAudience(s.aud))
	}

	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issue signs a token for subject. Used by the CLI and tests.
func (s *JWTService) Issue(subject, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Name:  name,
	}
	if s.aud != "" {
		claims.Audience = jwt.ClaimStrings{s.aud}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
