package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/slug"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 50

type OrganizationServicer interface {
	Create(ctx context.Context, name string, creator *model.User) (*model.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrganizationRequest) (*model.Organization, error)
	ListForUser(ctx context.Context, user *model.User) ([]*model.Organization, error)
}

type TrialStarter interface {
	StartTrial(ctx context.Context, orgID uuid.UUID, trialDays int) (*model.Subscription, error)
}

type Service struct {
	store     *repository.Store
	trials    TrialStarter
	trialDays int
	clock     service.Clock
	log       *logger.Logger
}

func NewService(store *repository.Store, trials TrialStarter, trialDays int, log *logger.Logger) *Service {
	return &Service{store: store, trials: trials, trialDays: trialDays, clock: service.SystemClock, log: log}
}

// Create makes the organization, its owner membership and its trial in one
// transaction.
func (s *Service) Create(ctx context.Context, name string, creator *model.User) (*model.Organization, error) {
	base := slug.Make(name)
	if base == "" {
		return nil, apperrors.BadRequest("organization name must contain letters or digits", nil)
	}

	var org *model.Organization
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		orgSlug, err := s.freeSlug(ctx, base)
		if err != nil {
			return err
		}
		now := s.clock()

		org = &model.Organization{Name: name, Slug: orgSlug}
		org.Stamp(now)
		if err := s.store.Organizations.Create(ctx, org); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("organization slug is already taken")
			}
			return fmt.Errorf("failed to create organization: %w", err)
		}

		member := &model.OrganizationMember{
			OrgScope: model.OrgScope{OrganizationID: org.ID},
			UserID:   creator.ID,
			Role:     permission.RoleOwner,
		}
		member.Stamp(now)
		if err := s.store.Members.Create(ctx, member); err != nil {
			return fmt.Errorf("failed to add owner: %w", err)
		}

		_, err = s.trials.StartTrial(ctx, org.ID, s.trialDays)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organization created", "organization_id", org.ID.String(), "slug", org.Slug)
	return org, nil
}

func (s *Service) freeSlug(ctx context.Context, base string) (string, error) {
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.Numbered(base, n)
		_, err := s.store.Organizations.GetBySlug(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
	}
	return "", apperrors.Conflict("could not find a free slug for this name")
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, err := s.store.Organizations.Get(ctx, id)
	if err != nil {
		return nil, service.Wrap(err, "Organization", "get")
	}
	return org, nil
}

func (s *Service) GetBySlug(ctx context.Context, orgSlug string) (*model.Organization, error) {
	org, err := s.store.Organizations.GetBySlug(ctx, orgSlug)
	if err != nil {
		return nil, service.Wrap(err, "Organization", "get")
	}
	return org, nil
}

// Update renames the organization. The slug is kept so links stay valid.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrganizationRequest) (*model.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	org.Stamp(s.clock())
	if err := s.store.Organizations.Update(ctx, org); err != nil {
		return nil, service.Wrap(err, "Organization", "update")
	}
	return org, nil
}

// ListForUser returns the organizations the user belongs to; super admins
// see every organization.
func (s *Service) ListForUser(ctx context.Context, user *model.User) ([]*model.Organization, error) {
	if user.Role == permission.RoleSuperAdmin {
		orgs, err := s.store.Organizations.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizations: %w", err)
		}
		return orgs, nil
	}

	members, err := s.store.Members.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	ids := service.CollectIDs(members, func(m *model.OrganizationMember) *uuid.UUID { return &m.OrganizationID })
	if len(ids) == 0 {
		return []*model.Organization{}, nil
	}
	orgs, err := s.store.Organizations.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations: %w", err)
	}
	return orgs, nil
}
