package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type UserServicer interface {
	SyncFromIdentity(ctx context.Context, claims model.IdentityClaims) (*model.User, error)
	Me(ctx context.Context, subject string) (*model.User, error)
	UpdateProfile(ctx context.Context, subject string, req *model.UpdateProfileRequest) (*model.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role permission.Role) (*model.User, error)
}

// IdentityCache is told when a user record changes.
type IdentityCache interface {
	Forget(subject string)
}

type Service struct {
	repo  repository.UserRepository
	cache IdentityCache
	clock service.Clock
	log   *logger.Logger
}

func NewService(repo repository.UserRepository, cache IdentityCache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, clock: service.SystemClock, log: log}
}

// SyncFromIdentity inserts the caller on first sight and refreshes email and
// name afterwards. New users start as owners so they can create an org.
func (s *Service) SyncFromIdentity(ctx context.Context, claims model.IdentityClaims) (*model.User, error) {
	if claims.Subject == "" {
		return nil, apperrors.NotAuthenticated()
	}
	now := s.clock()

	existing, err := s.repo.GetBySubject(ctx, claims.Subject)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user := &model.User{
			Subject: claims.Subject,
			Email:   strings.ToLower(claims.Email),
			Name:    claims.Name,
			Role:    permission.RoleOwner,
		}
		user.Stamp(now)
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.Conflict("a user with this identity or email already exists")
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.log.Info("user created from identity", "user_id", user.ID.String())
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	changed := false
	if claims.Email != "" && !strings.EqualFold(claims.Email, existing.Email) {
		existing.Email = strings.ToLower(claims.Email)
		changed = true
	}
	if claims.Name != "" && claims.Name != existing.Name {
		existing.Name = claims.Name
		changed = true
	}
	if !changed {
		return existing, nil
	}

	existing.Stamp(now)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, service.Wrap(err, "User", "update")
	}
	s.cache.Forget(existing.Subject)
	return existing, nil
}

func (s *Service) Me(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, apperrors.NotAuthenticated()
	}
	user, err := s.repo.GetBySubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.UserNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, subject string, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.Me(ctx, subject)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	user.Stamp(s.clock())

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, service.Wrap(err, "User", "update")
	}
	s.cache.Forget(subject)
	return user, nil
}

// SetRole changes a user's global role. Only reachable by super admins.
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role permission.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown role %q", role), nil)
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.Wrap(err, "User", "get")
	}
	user.Role = role
	user.Stamp(s.clock())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, service.Wrap(err, "User", "update")
	}
	s.cache.Forget(user.Subject)
	s.log.Info("user role changed", "user_id", id.String(), "role", string(role))
	return user, nil
}
