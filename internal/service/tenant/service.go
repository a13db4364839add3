package tenant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type TenantServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateTenantRequest) (*model.Tenant, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.TenantView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.TenantFilter) ([]*model.TenantView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateTenantRequest) (*model.Tenant, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status model.TenantStatus) (*model.Tenant, error)
	InviteToPortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error)
	ActivatePortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error)
	DisablePortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error)
}

type Service struct {
	store  *repository.Store
	mailer email.Service
	clock  service.Clock
	log    *logger.Logger
}

func NewService(store *repository.Store, mailer email.Service, log *logger.Logger) *Service {
	return &Service{store: store, mailer: mailer, clock: service.SystemClock, log: log}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateTenantRequest) (*model.Tenant, error) {
	status := model.TenantStatusApplicant
	if req.Status == string(model.TenantStatusCurrent) {
		status = model.TenantStatusCurrent
	}
	tenant := &model.Tenant{
		OrgScope:         model.OrgScope{OrganizationID: orgID},
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            strings.ToLower(req.Email),
		Phone:            req.Phone,
		Status:           status,
		PortalStatus:     model.PortalStatusNone,
		EmergencyContact: req.EmergencyContact,
		Notes:            req.Notes,
	}
	tenant.Stamp(s.clock())
	if err := s.store.Tenants.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.TenantView, error) {
	tenant, err := s.store.Tenants.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Tenant", "get")
	}
	views, err := s.enrich(ctx, orgID, []*model.Tenant{tenant})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List fetches by status and property from the store and applies the free
// text search in memory.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.TenantFilter) ([]*model.TenantView, error) {
	tenants, err := s.store.Tenants.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Search)); q != "" {
		matched := tenants[:0]
		for _, t := range tenants {
			if strings.Contains(strings.ToLower(t.FullName()), q) || strings.Contains(t.Email, q) {
				matched = append(matched, t)
			}
		}
		tenants = matched
	}
	return s.enrich(ctx, orgID, tenants)
}

func (s *Service) enrich(ctx context.Context, orgID uuid.UUID, tenants []*model.Tenant) ([]*model.TenantView, error) {
	views := make([]*model.TenantView, 0, len(tenants))
	if len(tenants) == 0 {
		return views, nil
	}

	units := map[uuid.UUID]*model.Unit{}
	if ids := service.CollectIDs(tenants, func(t *model.Tenant) *uuid.UUID { return t.UnitID }); len(ids) > 0 {
		found, err := s.store.Units.GetMany(ctx, orgID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get units: %w", err)
		}
		units = service.Index(found)
	}
	properties := map[uuid.UUID]*model.Property{}
	if ids := service.CollectIDs(tenants, func(t *model.Tenant) *uuid.UUID { return t.PropertyID }); len(ids) > 0 {
		found, err := s.store.Properties.GetMany(ctx, orgID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get properties: %w", err)
		}
		properties = service.Index(found)
	}

	for _, t := range tenants {
		views = append(views, &model.TenantView{
			Tenant:   t,
			Unit:     service.Lookup(units, t.UnitID),
			Property: service.Lookup(properties, t.PropertyID),
		})
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateTenantRequest) (*model.Tenant, error) {
	tenant, err := s.store.Tenants.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Tenant", "get")
	}
	if req.FirstName != nil {
		tenant.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		tenant.LastName = *req.LastName
	}
	if req.Email != nil {
		tenant.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		tenant.Phone = req.Phone
	}
	if req.EmergencyContact != nil {
		tenant.EmergencyContact = req.EmergencyContact
	}
	if req.Notes != nil {
		tenant.Notes = req.Notes
	}
	tenant.Stamp(s.clock())
	if err := s.store.Tenants.Update(ctx, tenant); err != nil {
		return nil, service.Wrap(err, "Tenant", "update")
	}
	return tenant, nil
}

// Delete refuses while the tenant still holds a pending or active lease.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Tenants.Get(ctx, orgID, id); err != nil {
			return service.Wrap(err, "Tenant", "get")
		}
		leases, err := s.store.Leases.List(ctx, orgID, model.LeaseFilter{TenantID: &id})
		if err != nil {
			return fmt.Errorf("failed to list leases: %w", err)
		}
		for _, l := range leases {
			if l.Status == model.LeaseStatusActive || l.Status == model.LeaseStatusPending {
				return apperrors.Conflict("tenant has an open lease; terminate it first")
			}
		}
		return service.Wrap(s.store.Tenants.Delete(ctx, orgID, id), "Tenant", "delete")
	})
}

func (s *Service) ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status model.TenantStatus) (*model.Tenant, error) {
	tenant, err := s.store.Tenants.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Tenant", "get")
	}
	if err := model.TenantLifecycle.Transition(tenant.Status, status); err != nil {
		return nil, err
	}
	tenant.Status = status
	tenant.Stamp(s.clock())
	if err := s.store.Tenants.Update(ctx, tenant); err != nil {
		return nil, service.Wrap(err, "Tenant", "update")
	}
	s.log.Debug("tenant status changed", "tenant_id", id.String(), "status", string(status))
	return tenant, nil
}

func (s *Service) setPortal(ctx context.Context, orgID, id uuid.UUID, to model.PortalStatus) (*model.Tenant, error) {
	tenant, err := s.store.Tenants.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Tenant", "get")
	}
	if err := model.PortalLifecycle.Transition(tenant.PortalStatus, to); err != nil {
		return nil, err
	}
	tenant.PortalStatus = to
	tenant.Stamp(s.clock())
	if err := s.store.Tenants.Update(ctx, tenant); err != nil {
		return nil, service.Wrap(err, "Tenant", "update")
	}
	return tenant, nil
}

// InviteToPortal marks the tenant invited and emails them. A failed email
// is logged, not returned: the invite can be resent.
func (s *Service) InviteToPortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error) {
	tenant, err := s.setPortal(ctx, orgID, id, model.PortalStatusInvited)
	if err != nil {
		return nil, err
	}
	orgName := ""
	if org, err := s.store.Organizations.Get(ctx, orgID); err == nil {
		orgName = org.Name
	}
	if err := s.mailer.SendPortalInvite(ctx, tenant.Email, tenant.FullName(), orgName); err != nil {
		s.log.Error(err, "failed to send portal invite", "tenant_id", id.String())
	}
	return tenant, nil
}

func (s *Service) ActivatePortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error) {
	return s.setPortal(ctx, orgID, id, model.PortalStatusActive)
}

func (s *Service) DisablePortal(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error) {
	return s.setPortal(ctx, orgID, id, model.PortalStatusDisabled)
}
