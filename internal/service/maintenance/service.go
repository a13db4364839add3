package maintenance

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

type MaintenanceServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateMaintenanceRequest) (*model.MaintenanceRequest, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.MaintenanceView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.MaintenanceFilter) ([]*model.MaintenanceView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateMaintenanceRequest) (*model.MaintenanceRequest, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status model.MaintenanceStatus) (*model.MaintenanceRequest, error)
	AssignVendor(ctx context.Context, orgID, id uuid.UUID, req *model.AssignVendorRequest) (*model.MaintenanceRequest, error)
	Complete(ctx context.Context, orgID, id uuid.UUID, req *model.CompleteMaintenanceRequest) (*model.MaintenanceRequest, *model.Expense, error)
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

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateMaintenanceRequest) (*model.MaintenanceRequest, error) {
	propertyID, err := service.ParseID(req.PropertyID, "property_id")
	if err != nil {
		return nil, err
	}
	unitID, err := service.ParseOptionalID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	tenantID, err := service.ParseOptionalID(req.TenantID, "tenant_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Properties.Get(ctx, orgID, propertyID); err != nil {
		return nil, service.Wrap(err, "Property", "get")
	}
	if unitID != nil {
		unit, err := s.store.Units.Get(ctx, orgID, *unitID)
		if err != nil {
			return nil, service.Wrap(err, "Unit", "get")
		}
		if unit.PropertyID != propertyID {
			return nil, apperrors.BadRequest("unit does not belong to this property", nil)
		}
	}
	if tenantID != nil {
		if _, err := s.store.Tenants.Get(ctx, orgID, *tenantID); err != nil {
			return nil, service.Wrap(err, "Tenant", "get")
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	m := &model.MaintenanceRequest{
		OrgScope:      model.OrgScope{OrganizationID: orgID},
		PropertyID:    propertyID,
		UnitID:        unitID,
		TenantID:      tenantID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      priority,
		Status:        model.MaintenanceStatusOpen,
		EstimatedCost: req.EstimatedCost,
		ScheduledAt:   req.ScheduledAt,
		ImageIDs:      req.ImageIDs,
	}
	m.Stamp(s.clock())
	if err := s.store.Maintenance.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.MaintenanceView, error) {
	m, err := s.store.Maintenance.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Maintenance request", "get")
	}
	views, err := s.enrich(ctx, orgID, []*model.MaintenanceRequest{m})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.MaintenanceFilter) ([]*model.MaintenanceView, error) {
	requests, err := s.store.Maintenance.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	return s.enrich(ctx, orgID, requests)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateMaintenanceRequest) (*model.MaintenanceRequest, error) {
	m, err := s.store.Maintenance.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Maintenance request", "get")
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Priority != nil {
		m.Priority = *req.Priority
	}
	if req.EstimatedCost != nil {
		m.EstimatedCost = req.EstimatedCost
	}
	if req.ScheduledAt != nil {
		m.ScheduledAt = req.ScheduledAt
	}
	if req.ImageIDs != nil {
		m.ImageIDs = req.ImageIDs
	}
	m.Stamp(s.clock())
	if err := s.store.Maintenance.Update(ctx, m); err != nil {
		return nil, service.Wrap(err, "Maintenance request", "update")
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return service.Wrap(s.store.Maintenance.Delete(ctx, orgID, id), "Maintenance request", "delete")
}

// ChangeStatus moves the request along its lifecycle. Completion carries a
// cost and goes through Complete instead.
func (s *Service) ChangeStatus(ctx context.Context, orgID, id uuid.UUID, status model.MaintenanceStatus) (*model.MaintenanceRequest, error) {
	if status == model.MaintenanceStatusCompleted {
		m, _, err := s.Complete(ctx, orgID, id, &model.CompleteMaintenanceRequest{})
		return m, err
	}
	m, err := s.store.Maintenance.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Maintenance request", "get")
	}
	if err := model.MaintenanceLifecycle.Transition(m.Status, status); err != nil {
		return nil, err
	}
	m.Status = status
	m.Stamp(s.clock())
	if err := s.store.Maintenance.Update(ctx, m); err != nil {
		return nil, service.Wrap(err, "Maintenance request", "update")
	}
	return m, nil
}

// AssignVendor hands the request to an active vendor. Open requests move to
// in progress.
func (s *Service) AssignVendor(ctx context.Context, orgID, id uuid.UUID, req *model.AssignVendorRequest) (*model.MaintenanceRequest, error) {
	vendorID, err := service.ParseID(req.VendorID, "vendor_id")
	if err != nil {
		return nil, err
	}
	m, err := s.store.Maintenance.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Maintenance request", "get")
	}
	if !m.Status.Open() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot assign a vendor to a %s request", m.Status))
	}
	vendor, err := s.store.Vendors.Get(ctx, orgID, vendorID)
	if err != nil {
		return nil, service.Wrap(err, "Vendor", "get")
	}
	if vendor.Status != model.VendorStatusActive {
		return nil, apperrors.Conflict("vendor is inactive")
	}

	m.VendorID = service.Ref(vendor.ID)
	if m.Status == model.MaintenanceStatusOpen {
		m.Status = model.MaintenanceStatusInProgress
	}
	m.Stamp(s.clock())
	if err := s.store.Maintenance.Update(ctx, m); err != nil {
		return nil, service.Wrap(err, "Maintenance request", "update")
	}
	return m, nil
}

// Complete closes the request. A non-zero actual cost is booked as a
// maintenance expense in the same transaction.
func (s *Service) Complete(ctx context.Context, orgID, id uuid.UUID, req *model.CompleteMaintenanceRequest) (*model.MaintenanceRequest, *model.Expense, error) {
	var (
		m       *model.MaintenanceRequest
		expense *model.Expense
	)
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.store.Maintenance.Get(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Maintenance request", "get")
		}
		if err := model.MaintenanceLifecycle.Transition(m.Status, model.MaintenanceStatusCompleted); err != nil {
			return err
		}
		now := s.clock()
		m.Status = model.MaintenanceStatusCompleted
		m.CompletedAt = &now
		if req.ActualCost > 0 {
			cost := req.ActualCost
			m.ActualCost = &cost
			expense = expenseFor(m, now)
			if err := s.store.Expenses.Create(ctx, expense); err != nil {
				return fmt.Errorf("failed to record maintenance expense: %w", err)
			}
		}
		m.Stamp(now)
		if err := s.store.Maintenance.Update(ctx, m); err != nil {
			return service.Wrap(err, "Maintenance request", "update")
		}
		return s.events.Emit(ctx, orgID, model.EventMaintenanceCompleted, m.ID, map[string]interface{}{
			"maintenance_id": m.ID,
			"property_id":    m.PropertyID,
			"vendor_id":      m.VendorID,
			"actual_cost":    m.ActualCost,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return m, expense, nil
}

func expenseFor(m *model.MaintenanceRequest, now time.Time) *model.Expense {
	e := &model.Expense{
		OrgScope:      model.OrgScope{OrganizationID: m.OrganizationID},
		PropertyID:    service.Ref(m.PropertyID),
		UnitID:        m.UnitID,
		VendorID:      m.VendorID,
		MaintenanceID: service.Ref(m.ID),
		Category:      model.ExpenseCategoryMaintenance,
		Description:   m.Title,
		Amount:        *m.ActualCost,
		Date:          now,
		Status:        model.ExpenseStatusPending,
	}
	e.Stamp(now)
	return e
}

func (s *Service) enrich(ctx context.Context, orgID uuid.UUID, requests []*model.MaintenanceRequest) ([]*model.MaintenanceView, error) {
	views := make([]*model.MaintenanceView, 0, len(requests))
	if len(requests) == 0 {
		return views, nil
	}
	properties, err := s.store.Properties.GetMany(ctx, orgID,
		service.CollectIDs(requests, func(m *model.MaintenanceRequest) *uuid.UUID { return &m.PropertyID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}
	units, err := s.store.Units.GetMany(ctx, orgID,
		service.CollectIDs(requests, func(m *model.MaintenanceRequest) *uuid.UUID { return m.UnitID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}
	tenants, err := s.store.Tenants.GetMany(ctx, orgID,
		service.CollectIDs(requests, func(m *model.MaintenanceRequest) *uuid.UUID { return m.TenantID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get tenants: %w", err)
	}
	vendors, err := s.store.Vendors.GetMany(ctx, orgID,
		service.CollectIDs(requests, func(m *model.MaintenanceRequest) *uuid.UUID { return m.VendorID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get vendors: %w", err)
	}

	propertyByID, unitByID := service.Index(properties), service.Index(units)
	tenantByID, vendorByID := service.Index(tenants), service.Index(vendors)
	for _, m := range requests {
		views = append(views, &model.MaintenanceView{
			MaintenanceRequest: m,
			Property:           propertyByID[m.PropertyID],
			Unit:               service.Lookup(unitByID, m.UnitID),
			Tenant:             service.Lookup(tenantByID, m.TenantID),
			Vendor:             service.Lookup(vendorByID, m.VendorID),
		})
	}
	return views, nil
}
