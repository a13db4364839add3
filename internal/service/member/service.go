package member

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

type MemberServicer interface {
	Add(ctx context.Context, orgID uuid.UUID, email string, role permission.Role) (*model.MemberView, error)
	List(ctx context.Context, orgID uuid.UUID) ([]*model.MemberView, error)
	UpdateRole(ctx context.Context, orgID, id uuid.UUID, role permission.Role) (*model.OrganizationMember, error)
	Remove(ctx context.Context, orgID, id uuid.UUID) error
}

type LimitChecker interface {
	CheckLimit(ctx context.Context, orgID uuid.UUID, resource model.LimitedResource, adding int) error
}

type Service struct {
	store  *repository.Store
	limits LimitChecker
	clock  service.Clock
	log    *logger.Logger
}

func NewService(store *repository.Store, limits LimitChecker, log *logger.Logger) *Service {
	return &Service{store: store, limits: limits, clock: service.SystemClock, log: log}
}

func (s *Service) Add(ctx context.Context, orgID uuid.UUID, email string, role permission.Role) (*model.MemberView, error) {
	if !role.Valid() || role == permission.RoleSuperAdmin {
		return nil, apperrors.BadRequest(fmt.Sprintf("role %q cannot be granted in an organization", role), nil)
	}

	user, err := s.store.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, service.Wrap(err, "User", "get")
	}

	var member *model.OrganizationMember
	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.store.Members.GetByUser(ctx, orgID, user.ID)
		if err == nil {
			return apperrors.Conflict("user is already a member of this organization")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if err := s.limits.CheckLimit(ctx, orgID, model.ResourceMembers, 1); err != nil {
			return err
		}

		member = &model.OrganizationMember{
			OrgScope: model.OrgScope{OrganizationID: orgID},
			UserID:   user.ID,
			Role:     role,
		}
		member.Stamp(s.clock())
		if err := s.store.Members.Create(ctx, member); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("user is already a member of this organization")
			}
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.MemberView{OrganizationMember: member, User: user}, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]*model.MemberView, error) {
	members, err := s.store.Members.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ids := service.CollectIDs(members, func(m *model.OrganizationMember) *uuid.UUID { return &m.UserID })
	users := map[uuid.UUID]*model.User{}
	if len(ids) > 0 {
		found, err := s.store.Users.GetMany(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		users = service.Index(found)
	}

	views := make([]*model.MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, &model.MemberView{OrganizationMember: m, User: users[m.UserID]})
	}
	return views, nil
}

func (s *Service) UpdateRole(ctx context.Context, orgID, id uuid.UUID, role permission.Role) (*model.OrganizationMember, error) {
	if !role.Valid() || role == permission.RoleSuperAdmin {
		return nil, apperrors.BadRequest(fmt.Sprintf("role %q cannot be granted in an organization", role), nil)
	}
	var member *model.OrganizationMember
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		member, err = s.store.Members.Get(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Member", "get")
		}
		if member.Role == permission.RoleOwner && role != permission.RoleOwner {
			if err := s.ensureAnotherOwner(ctx, orgID, member.ID); err != nil {
				return err
			}
		}
		member.Role = role
		member.Stamp(s.clock())
		return service.Wrap(s.store.Members.Update(ctx, member), "Member", "update")
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) Remove(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		member, err := s.store.Members.Get(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Member", "get")
		}
		if member.Role == permission.RoleOwner {
			if err := s.ensureAnotherOwner(ctx, orgID, member.ID); err != nil {
				return err
			}
		}
		if err := s.store.Members.Delete(ctx, orgID, id); err != nil {
			return service.Wrap(err, "Member", "delete")
		}
		s.log.Info("member removed", "organization_id", orgID.String(), "user_id", member.UserID.String())
		return nil
	})
}

func (s *Service) ensureAnotherOwner(ctx context.Context, orgID, except uuid.UUID) error {
	members, err := s.store.Members.ListByOrganization(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	for _, m := range members {
		if m.ID != except && m.Role == permission.RoleOwner {
			return nil
		}
	}
	return apperrors.Conflict("an organization must keep at least one owner")
}
