package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/event"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/security"
)

type ApplicationServicer interface {
	CreateInvite(ctx context.Context, orgID, invitedBy uuid.UUID, req *model.CreateInviteRequest) (*model.IssuedInvite, error)
	ListInvites(ctx context.Context, orgID uuid.UUID, filter model.InviteFilter) ([]*model.ApplicationInvite, error)
	RevokeInvite(ctx context.Context, orgID, id uuid.UUID) (*model.ApplicationInvite, error)
	ResolveInvite(ctx context.Context, token string) (*model.InviteSummary, error)
	Submit(ctx context.Context, token string, req *model.SubmitApplicationRequest) (*model.Application, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.ApplicationFilter) ([]*model.Application, error)
	StartReview(ctx context.Context, orgID, id, reviewer uuid.UUID) (*model.Application, error)
	Approve(ctx context.Context, orgID, id, reviewer uuid.UUID, req *model.ReviewApplicationRequest) (*model.Application, *model.Tenant, error)
	Reject(ctx context.Context, orgID, id, reviewer uuid.UUID, req *model.ReviewApplicationRequest) (*model.Application, error)
	Withdraw(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error)
}

type Config struct {
	AppURL string
	// InviteTTL applies when a request gives no ttl_hours.
	InviteTTL time.Duration
}

type Service struct {
	store  *repository.Store
	hasher security.SecretHasher
	mailer email.Service
	events *event.Emitter
	cfg    Config
	clock  service.Clock
	log    *logger.Logger
}

func NewService(store *repository.Store, hasher security.SecretHasher, mailer email.Service, events *event.Emitter, cfg Config, log *logger.Logger) *Service {
	if cfg.InviteTTL <= 0 {
		cfg.InviteTTL = 7 * 24 * time.Hour
	}
	return &Service{
		store:  store,
		hasher: hasher,
		mailer: mailer,
		events: events,
		cfg:    cfg,
		clock:  service.SystemClock,
		log:    log,
	}
}

// CreateInvite stores a pending invite and mails its link. The plaintext
// token is only ever returned here.
func (s *Service) CreateInvite(ctx context.Context, orgID, invitedBy uuid.UUID, req *model.CreateInviteRequest) (*model.IssuedInvite, error) {
	listingID, err := service.ParseOptionalID(req.ListingID, "listing_id")
	if err != nil {
		return nil, err
	}
	unitID, err := service.ParseOptionalID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	if listingID != nil {
		listing, err := s.store.Listings.Get(ctx, orgID, *listingID)
		if err != nil {
			return nil, service.Wrap(err, "Listing", "get")
		}
		if unitID == nil {
			unitID = service.Ref(listing.UnitID)
		}
	}
	if unitID != nil {
		if _, err := s.store.Units.Get(ctx, orgID, *unitID); err != nil {
			return nil, service.Wrap(err, "Unit", "get")
		}
	}
	org, err := s.store.Organizations.Get(ctx, orgID)
	if err != nil {
		return nil, service.Wrap(err, "Organization", "get")
	}

	ttl := s.cfg.InviteTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}
	now := s.clock()
	invite := &model.ApplicationInvite{
		Base:      model.Base{ID: uuid.New()},
		OrgScope:  model.OrgScope{OrganizationID: orgID},
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      req.Name,
		ListingID: listingID,
		UnitID:    unitID,
		Status:    model.InviteStatusPending,
		ExpiresAt: now.Add(ttl),
		InvitedBy: service.Ref(invitedBy),
	}
	token, hash, err := security.IssueToken(invite.ID, s.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to issue invite token: %w", err)
	}
	invite.TokenHash = hash
	invite.Stamp(now)
	if err := s.store.Invites.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	issued := &model.IssuedInvite{ApplicationInvite: invite, Token: token, Link: s.link(token)}
	name := invite.Email
	if invite.Name != nil {
		name = *invite.Name
	}
	if err := s.mailer.SendApplicationInvite(ctx, invite.Email, name, org.Name, issued.Link); err != nil {
		s.log.Error(err, "failed to send application invite", "invite_id", invite.ID.String())
	}
	return issued, nil
}

func (s *Service) ListInvites(ctx context.Context, orgID uuid.UUID, filter model.InviteFilter) ([]*model.ApplicationInvite, error) {
	invites, err := s.store.Invites.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

func (s *Service) RevokeInvite(ctx context.Context, orgID, id uuid.UUID) (*model.ApplicationInvite, error) {
	invite, err := s.store.Invites.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Invite", "get")
	}
	if err := model.InviteLifecycle.Transition(invite.Status, model.InviteStatusRevoked); err != nil {
		return nil, err
	}
	invite.Status = model.InviteStatusRevoked
	invite.Stamp(s.clock())
	if err := s.store.Invites.Update(ctx, invite); err != nil {
		return nil, service.Wrap(err, "Invite", "update")
	}
	return invite, nil
}

// ResolveInvite shows an anonymous token holder what they were invited to.
func (s *Service) ResolveInvite(ctx context.Context, token string) (*model.InviteSummary, error) {
	invite, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	summary := &model.InviteSummary{
		InviteID:  invite.ID,
		Email:     invite.Email,
		Name:      invite.Name,
		ExpiresAt: invite.ExpiresAt,
		UnitID:    invite.UnitID,
	}
	if org, err := s.store.Organizations.Get(ctx, invite.OrganizationID); err == nil {
		summary.OrganizationName = org.Name
	}
	if invite.ListingID != nil {
		if listing, err := s.store.Listings.Get(ctx, invite.OrganizationID, *invite.ListingID); err == nil {
			summary.Listing = listing
		}
	}
	return summary, nil
}

// authenticate checks the token against the stored hash. Every failure looks
// like a missing invite; an expired one is marked on the way out.
func (s *Service) authenticate(ctx context.Context, token string) (*model.ApplicationInvite, error) {
	id, secret, err := security.ParseToken(token)
	if err != nil {
		return nil, apperrors.NotFound("Invite")
	}
	invite, err := s.store.Invites.Lookup(ctx, id)
	if err != nil {
		return nil, service.Wrap(err, "Invite", "get")
	}
	if err := s.hasher.Compare(invite.TokenHash, secret); err != nil {
		return nil, apperrors.NotFound("Invite")
	}
	if invite.Status != model.InviteStatusPending {
		return nil, apperrors.NotFound("Invite")
	}

	now := s.clock()
	if invite.Expired(now) {
		invite.Status = model.InviteStatusExpired
		invite.Stamp(now)
		if err := s.store.Invites.Update(ctx, invite); err != nil {
			s.log.Error(err, "failed to mark invite expired", "invite_id", invite.ID.String())
		}
		return nil, apperrors.NotFound("Invite")
	}
	return invite, nil
}

// Submit accepts the invite and files the application in one transaction.
func (s *Service) Submit(ctx context.Context, token string, req *model.SubmitApplicationRequest) (*model.Application, error) {
	invite, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	occupants := req.Occupants
	if occupants == 0 {
		occupants = 1
	}
	app := &model.Application{
		OrgScope:       model.OrgScope{OrganizationID: invite.OrganizationID},
		InviteID:       invite.ID,
		ListingID:      invite.ListingID,
		UnitID:         invite.UnitID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		CurrentAddress: req.CurrentAddress,
		Employer:       req.Employer,
		MonthlyIncome:  req.MonthlyIncome,
		DesiredMoveIn:  req.DesiredMoveIn,
		Occupants:      occupants,
		HasPets:        req.HasPets,
		Message:        req.Message,
		Status:         model.ApplicationStatusSubmitted,
	}

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.store.Invites.Lookup(ctx, invite.ID)
		if err != nil {
			return service.Wrap(err, "Invite", "get")
		}
		if err := model.InviteLifecycle.Transition(current.Status, model.InviteStatusAccepted); err != nil {
			return err
		}
		now := s.clock()
		current.Status = model.InviteStatusAccepted
		current.Stamp(now)
		if err := s.store.Invites.Update(ctx, current); err != nil {
			return service.Wrap(err, "Invite", "update")
		}
		app.Stamp(now)
		if err := s.store.Applications.Create(ctx, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return s.events.Emit(ctx, app.OrganizationID, model.EventApplicationSubmitted, app.ID, map[string]interface{}{
			"application_id": app.ID,
			"invite_id":      invite.ID,
			"listing_id":     app.ListingID,
			"email":          app.Email,
		})
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error) {
	app, err := s.store.Applications.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Application", "get")
	}
	return app, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.ApplicationFilter) ([]*model.Application, error) {
	apps, err := s.store.Applications.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *Service) StartReview(ctx context.Context, orgID, id, reviewer uuid.UUID) (*model.Application, error) {
	return s.review(ctx, orgID, id, model.ApplicationStatusUnderReview, func(ctx context.Context, app *model.Application, _ time.Time) error {
		app.ReviewedBy = service.Ref(reviewer)
		return nil
	})
}

// Approve turns the applicant into a tenant record with status applicant.
func (s *Service) Approve(ctx context.Context, orgID, id, reviewer uuid.UUID, req *model.ReviewApplicationRequest) (*model.Application, *model.Tenant, error) {
	var tenant *model.Tenant
	app, err := s.review(ctx, orgID, id, model.ApplicationStatusApproved, func(ctx context.Context, app *model.Application, now time.Time) error {
		stampReview(app, reviewer, req, now)
		tenant = &model.Tenant{
			OrgScope:     model.OrgScope{OrganizationID: orgID},
			FirstName:    app.FirstName,
			LastName:     app.LastName,
			Email:        app.Email,
			Phone:        app.Phone,
			Status:       model.TenantStatusApplicant,
			PortalStatus: model.PortalStatusNone,
		}
		tenant.Stamp(now)
		if err := s.store.Tenants.Create(ctx, tenant); err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}
		app.TenantID = service.Ref(tenant.ID)
		return s.events.Emit(ctx, orgID, model.EventApplicationApproved, app.ID, map[string]interface{}{
			"application_id": app.ID,
			"tenant_id":      tenant.ID,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return app, tenant, nil
}

func (s *Service) Reject(ctx context.Context, orgID, id, reviewer uuid.UUID, req *model.ReviewApplicationRequest) (*model.Application, error) {
	return s.review(ctx, orgID, id, model.ApplicationStatusRejected, func(_ context.Context, app *model.Application, now time.Time) error {
		stampReview(app, reviewer, req, now)
		return nil
	})
}

func (s *Service) Withdraw(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error) {
	return s.review(ctx, orgID, id, model.ApplicationStatusWithdrawn, nil)
}

func (s *Service) review(ctx context.Context, orgID, id uuid.UUID, to model.ApplicationStatus,
	apply func(ctx context.Context, app *model.Application, now time.Time) error,
) (*model.Application, error) {
	var app *model.Application
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.store.Applications.Get(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Application", "get")
		}
		if err := model.ApplicationLifecycle.Transition(app.Status, to); err != nil {
			return err
		}
		now := s.clock()
		app.Status = to
		if apply != nil {
			if err := apply(ctx, app, now); err != nil {
				return err
			}
		}
		app.Stamp(now)
		return service.Wrap(s.store.Applications.Update(ctx, app), "Application", "update")
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func stampReview(app *model.Application, reviewer uuid.UUID, req *model.ReviewApplicationRequest, now time.Time) {
	app.ReviewedBy = service.Ref(reviewer)
	app.ReviewedAt = &now
	if req != nil && req.Notes != nil {
		app.ReviewNotes = req.Notes
	}
}

func (s *Service) link(token string) string {
	return fmt.Sprintf("%s/apply/%s", strings.TrimRight(s.cfg.AppURL, "/"), token)
}

