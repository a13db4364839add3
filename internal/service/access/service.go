// Package access decides whether a caller may act on an organization.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

// Grant is the outcome of a successful check.
type Grant struct {
	User           *model.User
	OrganizationID uuid.UUID
	Role           permission.Role
	// Membership is nil for super admins acting outside their own orgs.
	Membership *model.OrganizationMember
}

type Verifier interface {
	Verify(ctx context.Context, subject string, orgID uuid.UUID, p permission.Permission) (*Grant, error)
	ResolveUser(ctx context.Context, subject string) (*model.User, error)
}

type Service struct {
	users   repository.UserRepository
	members repository.MemberRepository
	cache   *cache.Cache
}

// NewService caches subject -> user lookups for ttl. A zero ttl disables the
// cache.
func NewService(users repository.UserRepository, members repository.MemberRepository, ttl time.Duration) *Service {
	s := &Service{users: users, members: members}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *Service) ResolveUser(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, apperrors.NotAuthenticated()
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(subject); ok {
			return cached.(*model.User), nil
		}
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.UserNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if s.cache != nil {
		s.cache.SetDefault(subject, user)
	}
	return user, nil
}

// Forget drops a cached identity after the user record changes.
func (s *Service) Forget(subject string) {
	if s.cache != nil {
		s.cache.Delete(subject)
	}
}

func (s *Service) Verify(ctx context.Context, subject string, orgID uuid.UUID, p permission.Permission) (*Grant, error) {
	user, err := s.ResolveUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	if user.Role == permission.RoleSuperAdmin {
		return &Grant{User: user, OrganizationID: orgID, Role: permission.RoleSuperAdmin}, nil
	}

	member, err := s.members.GetByUser(ctx, orgID, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NoOrgAccess()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	role := member.Role
	if role == "" {
		role = user.Role
	}
	if !permission.HasPermission(role, p) {
		return nil, apperrors.MissingPermission(string(p))
	}

	return &Grant{User: user, OrganizationID: orgID, Role: role, Membership: member}, nil
}
