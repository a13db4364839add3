package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type ExpenseServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateExpenseRequest) (*model.Expense, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.ExpenseView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.ExpenseFilter) ([]*model.ExpenseView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateExpenseRequest) (*model.Expense, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	Summary(ctx context.Context, orgID uuid.UUID, period model.DateRange) (*model.ExpenseSummary, error)
	Export(ctx context.Context, orgID uuid.UUID, period model.DateRange) ([]byte, error)
}

type Service struct {
	store *repository.Store
	clock service.Clock
	log   *logger.Logger
}

func NewService(store *repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, clock: service.SystemClock, log: log}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateExpenseRequest) (*model.Expense, error) {
	now := s.clock()
	e := &model.Expense{
		OrgScope:    model.OrgScope{OrganizationID: orgID},
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        now,
		Status:      req.Status,
		ReceiptID:   req.ReceiptID,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		e.Date = req.Date.UTC()
	}
	if e.Status == "" {
		e.Status = model.ExpenseStatusPending
	}

	var err error
	if e.PropertyID, err = service.ParseOptionalID(req.PropertyID, "property_id"); err != nil {
		return nil, err
	}
	if e.UnitID, err = service.ParseOptionalID(req.UnitID, "unit_id"); err != nil {
		return nil, err
	}
	if e.VendorID, err = service.ParseOptionalID(req.VendorID, "vendor_id"); err != nil {
		return nil, err
	}
	if e.PropertyID != nil {
		if _, err := s.store.Properties.Get(ctx, orgID, *e.PropertyID); err != nil {
			return nil, service.Wrap(err, "Property", "get")
		}
	}
	if e.VendorID != nil {
		if _, err := s.store.Vendors.Get(ctx, orgID, *e.VendorID); err != nil {
			return nil, service.Wrap(err, "Vendor", "get")
		}
	}

	e.Stamp(now)
	if err := s.store.Expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.ExpenseView, error) {
	e, err := s.store.Expenses.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Expense", "get")
	}
	views, err := s.enrich(ctx, orgID, []*model.Expense{e})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.ExpenseFilter) ([]*model.ExpenseView, error) {
	expenses, err := s.store.Expenses.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return s.enrich(ctx, orgID, expenses)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateExpenseRequest) (*model.Expense, error) {
	e, err := s.store.Expenses.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Expense", "get")
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		e.Date = req.Date.UTC()
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.ReceiptID != nil {
		e.ReceiptID = req.ReceiptID
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}
	e.Stamp(s.clock())
	if err := s.store.Expenses.Update(ctx, e); err != nil {
		return nil, service.Wrap(err, "Expense", "update")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return service.Wrap(s.store.Expenses.Delete(ctx, orgID, id), "Expense", "delete")
}

// Summary totals expenses dated inside period.
func (s *Service) Summary(ctx context.Context, orgID uuid.UUID, period model.DateRange) (*model.ExpenseSummary, error) {
	expenses, err := s.store.Expenses.List(ctx, orgID, model.ExpenseFilter{DateRange: period})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	summary := &model.ExpenseSummary{
		ByCategory: make(map[model.ExpenseCategory]int64),
		ByProperty: make(map[uuid.UUID]int64),
	}
	for _, e := range expenses {
		summary.Total += e.Amount
		summary.Count++
		summary.ByCategory[e.Category] += e.Amount
		if e.PropertyID != nil {
			summary.ByProperty[*e.PropertyID] += e.Amount
		}
	}
	return summary, nil
}

func (s *Service) enrich(ctx context.Context, orgID uuid.UUID, expenses []*model.Expense) ([]*model.ExpenseView, error) {
	views := make([]*model.ExpenseView, 0, len(expenses))
	if len(expenses) == 0 {
		return views, nil
	}
	properties, err := s.store.Properties.GetMany(ctx, orgID,
		service.CollectIDs(expenses, func(e *model.Expense) *uuid.UUID { return e.PropertyID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}
	vendors, err := s.store.Vendors.GetMany(ctx, orgID,
		service.CollectIDs(expenses, func(e *model.Expense) *uuid.UUID { return e.VendorID }))
	if err != nil {
		return nil, fmt.Errorf("failed to get vendors: %w", err)
	}
	propertyByID, vendorByID := service.Index(properties), service.Index(vendors)
	for _, e := range expenses {
		views = append(views, &model.ExpenseView{
			Expense:  e,
			Property: service.Lookup(propertyByID, e.PropertyID),
			Vendor:   service.Lookup(vendorByID, e.VendorID),
		})
	}
	return views, nil
}
