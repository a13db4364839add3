package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/event"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

const defaultDueDay = 1

type LeaseServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateLeaseRequest) (*model.Lease, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.LeaseView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.LeaseFilter) ([]*model.LeaseView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateLeaseRequest) (*model.Lease, error)
	Activate(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error)
	Terminate(ctx context.Context, orgID, id uuid.UUID, reason string) (*model.Lease, error)
	Expire(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error)
}

type Service struct {
	store  *repository.Store
	events *event.Emitter
	clock  service.Clock
	log    *logger.Logger
}

func NewService(store *repository.Store, events *event.Emitter, log *logger.Logger) *Service {
	return &Service{store: store, events: events, clock: service.SystemClock, log: log}
}

type leasePayload struct {
	LeaseID    uuid.UUID `json:"lease_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	UnitID     uuid.UUID `json:"unit_id"`
	RentAmount int64     `json:"rent_amount"`
	Reason     string    `json:"reason,omitempty"`
}

// Create signs a lease: the unit becomes occupied and the tenant current,
// all in one transaction.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateLeaseRequest) (*model.Lease, error) {
	tenantID, err := service.ParseID(req.TenantID, "tenant_id")
	if err != nil {
		return nil, err
	}
	unitID, err := service.ParseID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, apperrors.BadRequest("end_date must be after start_date", nil)
	}

	var lease *model.Lease
	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		tenant, err := s.store.Tenants.Get(ctx, orgID, tenantID)
		if err != nil {
			return service.Wrap(err, "Tenant", "get")
		}
		unit, err := s.store.Units.Get(ctx, orgID, unitID)
		if err != nil {
			return service.Wrap(err, "Unit", "get")
		}
		if unit.Status != model.UnitStatusVacant {
			return apperrors.Conflict(fmt.Sprintf("unit %s is not vacant", unit.UnitNumber))
		}

		now := s.clock()
		status := model.LeaseStatusPending
		if !req.StartDate.After(now) {
			status = model.LeaseStatusActive
		}
		dueDay := req.DueDay
		if dueDay == 0 {
			dueDay = defaultDueDay
		}
		lease = &model.Lease{
			OrgScope:        model.OrgScope{OrganizationID: orgID},
			TenantID:        tenant.ID,
			UnitID:          unit.ID,
			PropertyID:      unit.PropertyID,
			StartDate:       req.StartDate.UTC(),
			EndDate:         req.EndDate,
			RentAmount:      req.RentAmount,
			SecurityDeposit: req.SecurityDeposit,
			DueDay:          dueDay,
			Status:          status,
		}
		lease.Stamp(now)
		if err := s.store.Leases.Create(ctx, lease); err != nil {
			return fmt.Errorf("failed to create lease: %w", err)
		}

		unit.Status = model.UnitStatusOccupied
		unit.Stamp(now)
		if err := s.store.Units.Update(ctx, unit); err != nil {
			return fmt.Errorf("failed to occupy unit: %w", err)
		}

		if tenant.Status != model.TenantStatusCurrent {
			if err := model.TenantLifecycle.Transition(tenant.Status, model.TenantStatusCurrent); err != nil {
				return err
			}
			tenant.Status = model.TenantStatusCurrent
		}
		tenant.UnitID = service.Ref(unit.ID)
		tenant.PropertyID = service.Ref(unit.PropertyID)
		tenant.LeaseID = service.Ref(lease.ID)
		tenant.Stamp(now)
		if err := s.store.Tenants.Update(ctx, tenant); err != nil {
			return fmt.Errorf("failed to update tenant: %w", err)
		}

		return s.events.Emit(ctx, orgID, model.EventLeaseCreated, lease.ID, leasePayload{
			LeaseID: lease.ID, TenantID: tenant.ID, UnitID: unit.ID, RentAmount: lease.RentAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lease created", "lease_id", lease.ID.String(), "status", string(lease.Status))
	return lease, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.LeaseView, error) {
	lease, err := s.store.Leases.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Lease", "get")
	}
	views, err := s.enrich(ctx, orgID, []*model.Lease{lease})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.LeaseFilter) ([]*model.LeaseView, error) {
	leases, err := s.store.Leases.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return s.enrich(ctx, orgID, leases)
}

func (s *Service) enrich(ctx context.Context, orgID uuid.UUID, leases []*model.Lease) ([]*model.LeaseView, error) {
	views := make([]*model.LeaseView, 0, len(leases))
	if len(leases) == 0 {
		return views, nil
	}

	tenants, err := s.store.Tenants.GetMany(ctx, orgID,
		service.CollectIDs(leases, func(l *model.Lease) *uuid.UUID { return &l.TenantID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get tenants: %w", err)
	}
	units, err := s.store.Units.GetMany(ctx, orgID,
		service.CollectIDs(leases, func(l *model.Lease) *uuid.UUID { return &l.UnitID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}
	properties, err := s.store.Properties.GetMany(ctx, orgID,
		service.CollectIDs(leases, func(l *model.Lease) *uuid.UUID { return &l.PropertyID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}

	tenantByID, unitByID, propertyByID := service.Index(tenants), service.Index(units), service.Index(properties)
	for _, l := range leases {
		views = append(views, &model.LeaseView{
			Lease:    l,
			Tenant:   tenantByID[l.TenantID],
			Unit:     unitByID[l.UnitID],
			Property: propertyByID[l.PropertyID],
		})
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateLeaseRequest) (*model.Lease, error) {
	lease, err := s.store.Leases.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Lease", "get")
	}
	if req.EndDate != nil {
		if !req.EndDate.After(lease.StartDate) {
			return nil, apperrors.BadRequest("end_date must be after start_date", nil)
		}
		lease.EndDate = req.EndDate
	}
	if req.RentAmount != nil {
		lease.RentAmount = *req.RentAmount
	}
	if req.DueDay != nil {
		lease.DueDay = *req.DueDay
	}
	lease.Stamp(s.clock())
	if err := s.store.Leases.Update(ctx, lease); err != nil {
		return nil, service.Wrap(err, "Lease", "update")
	}
	return lease, nil
}

func (s *Service) Activate(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error) {
	lease, err := s.store.Leases.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Lease", "get")
	}
	if err := model.LeaseLifecycle.Transition(lease.Status, model.LeaseStatusActive); err != nil {
		return nil, err
	}
	lease.Status = model.LeaseStatusActive
	lease.Stamp(s.clock())
	if err := s.store.Leases.Update(ctx, lease); err != nil {
		return nil, service.Wrap(err, "Lease", "update")
	}
	return lease, nil
}

// Terminate ends the lease early, vacates the unit and moves the tenant to
// past.
func (s *Service) Terminate(ctx context.Context, orgID, id uuid.UUID, reason string) (*model.Lease, error) {
	return s.end(ctx, orgID, id, model.LeaseStatusTerminated, func(txCtx context.Context, lease *model.Lease, now time.Time) error {
		lease.TerminatedAt = &now
		if reason != "" {
			lease.TerminationReason = &reason
		}
		return s.events.Emit(txCtx, orgID, model.EventLeaseTerminated, lease.ID, leasePayload{
			LeaseID: lease.ID, TenantID: lease.TenantID, UnitID: lease.UnitID,
			RentAmount: lease.RentAmount, Reason: reason,
		})
	})
}

// Expire closes a lease that ran its term.
func (s *Service) Expire(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error) {
	return s.end(ctx, orgID, id, model.LeaseStatusExpired, nil)
}

func (s *Service) end(ctx context.Context, orgID, id uuid.UUID, to model.LeaseStatus, apply func(context.Context, *model.Lease, time.Time) error) (*model.Lease, error) {
	var lease *model.Lease
	err := s.store.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		lease, err = s.store.Leases.Get(txCtx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Lease", "get")
		}
		if err := model.LeaseLifecycle.Transition(lease.Status, to); err != nil {
			return err
		}

		now := s.clock()
		lease.Status = to
		lease.Stamp(now)
		if apply != nil {
			if err := apply(txCtx, lease, now); err != nil {
				return err
			}
		}
		if err := s.store.Leases.Update(txCtx, lease); err != nil {
			return service.Wrap(err, "Lease", "update")
		}

		if unit, err := s.store.Units.Get(txCtx, orgID, lease.UnitID); err == nil {
			unit.Status = model.UnitStatusVacant
			unit.Stamp(now)
			if err := s.store.Units.Update(txCtx, unit); err != nil {
				return fmt.Errorf("failed to vacate unit: %w", err)
			}
		}

		tenant, err := s.store.Tenants.Get(txCtx, orgID, lease.TenantID)
		if err != nil {
			return service.Wrap(err, "Tenant", "get")
		}
		if tenant.Status == model.TenantStatusCurrent && tenant.LeaseID != nil && *tenant.LeaseID == lease.ID {
			tenant.Status = model.TenantStatusPast
			tenant.Stamp(now)
			if err := s.store.Tenants.Update(txCtx, tenant); err != nil {
				return fmt.Errorf("failed to update tenant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("lease ended", "lease_id", id.String(), "status", string(to))
	return lease, nil
}
