package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
)

type DashboardServicer interface {
	Stats(ctx context.Context, orgID uuid.UUID) (*model.DashboardStats, error)
}

type Service struct {
	store *repository.Store
	clock service.Clock
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store, clock: service.SystemClock}
}

// Stats scans each collection of the organization once.
func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*model.DashboardStats, error) {
	start, end := model.MonthBounds(s.clock())
	thisMonth := model.DateRange{From: &start, To: &end}
	stats := &model.DashboardStats{}

	properties, err := s.store.Properties.List(ctx, orgID, model.PropertyFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	stats.TotalProperties = len(properties)

	units, err := s.store.Units.List(ctx, orgID, model.UnitFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	occupancy := model.ComputePropertyStats(units)
	stats.TotalUnits = occupancy.UnitCount
	stats.OccupiedUnits = occupancy.OccupiedUnits
	stats.OccupancyRate = occupancy.OccupancyRate

	tenants, err := s.store.Tenants.List(ctx, orgID, model.TenantFilter{Status: model.TenantStatusCurrent})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	stats.ActiveTenants = len(tenants)

	leases, err := s.store.Leases.List(ctx, orgID, model.LeaseFilter{Status: model.LeaseStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	stats.ActiveLeases = len(leases)

	payments, err := s.store.Payments.List(ctx, orgID, model.PaymentFilter{
		Status:    model.PaymentStatusCompleted,
		DateRange: thisMonth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	for _, p := range payments {
		if p.PaidAt.Before(end) {
			stats.MonthlyRevenue += p.Amount
		}
	}

	invoices, err := s.store.Invoices.List(ctx, orgID, model.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	for _, inv := range invoices {
		if !inv.Status.Open() {
			continue
		}
		stats.Outstanding += inv.AmountDue
		if inv.Status == model.InvoiceStatusOverdue {
			stats.OverdueInvoices++
		}
	}

	requests, err := s.store.Maintenance.List(ctx, orgID, model.MaintenanceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	for _, m := range requests {
		if m.Status.Open() {
			stats.OpenMaintenance++
		}
	}

	listings, err := s.store.Listings.List(ctx, orgID, model.ListingFilter{Status: model.ListingStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	stats.ActiveListings = len(listings)

	expenses, err := s.store.Expenses.List(ctx, orgID, model.ExpenseFilter{DateRange: thisMonth})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	for _, e := range expenses {
		if e.Date.Before(end) {
			stats.MonthlyExpenses += e.Amount
		}
	}

	stats.NetIncome = stats.MonthlyRevenue - stats.MonthlyExpenses
	return stats, nil
}
