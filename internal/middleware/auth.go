package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/access"
	"github.com/jwalitptl/property-api/pkg/auth"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

const (
	HeaderOrganizationID = "X-Organization-ID"

	contextClaims = "auth_claims"
	contextUser   = "auth_user"
	contextGrant  = "auth_grant"
)

type AuthMiddleware struct {
	tokens auth.Verifier
	access access.Verifier
}

func NewAuthMiddleware(tokens auth.Verifier, verifier access.Verifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, access: verifier}
}

// Authenticate verifies the bearer token and stores its claims. It does not
// require a user record, so identity sync can run behind it.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, apperrors.NotAuthenticated())
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			abort(c, apperrors.NotAuthenticated())
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// RequireUser resolves the caller's user record.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.access.ResolveUser(c.Request.Context(), Subject(c))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(contextUser, user)
		c.Next()
	}
}

// RequirePermission checks the caller against the organization named by the
// X-Organization-ID header. Unregistered permissions panic when the route is
// built.
func (m *AuthMiddleware) RequirePermission(p permission.Permission) gin.HandlerFunc {
	if !permission.Registered(p) {
		panic(fmt.Sprintf("middleware: unregistered permission %q", p))
	}

	return func(c *gin.Context) {
		orgID, err := uuid.Parse(c.GetHeader(HeaderOrganizationID))
		if err != nil {
			abort(c, apperrors.BadRequest("X-Organization-ID header must be an organization id", nil))
			return
		}

		grant, err := m.access.Verify(c.Request.Context(), Subject(c), orgID, p)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(contextUser, grant.User)
		c.Set(contextGrant, grant)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Subject is the verified token subject, or "".
func Subject(c *gin.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.Subject
	}
	return ""
}

// ClaimsFrom returns the verified token claims, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(contextClaims); ok {
		return v.(*auth.Claims)
	}
	return nil
}

// UserFrom returns the resolved caller, or nil.
func UserFrom(c *gin.Context) *model.User {
	if v, ok := c.Get(contextUser); ok {
		return v.(*model.User)
	}
	return nil
}

// GrantFrom returns the access grant stored by RequirePermission, or nil.
func GrantFrom(c *gin.Context) *access.Grant {
	if v, ok := c.Get(contextGrant); ok {
		return v.(*access.Grant)
	}
	return nil
}

// OrgID is the organization the current request is scoped to.
func OrgID(c *gin.Context) uuid.UUID {
	if g := GrantFrom(c); g != nil {
		return g.OrganizationID
	}
	return uuid.Nil
}
