package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/property-api/internal/repository"
)

// NewStore wires every postgres repository onto one pool.
func NewStore(db *sqlx.DB) *repository.Store {
	base := NewBaseRepository(db)
	return &repository.Store{
		Tx:            &base,
		Organizations: NewOrganizationRepository(base),
		Users:         NewUserRepository(base),
		Members:       NewMemberRepository(base),
		Properties:    NewPropertyRepository(base),
		Units:         NewUnitRepository(base),
		Tenants:       NewTenantRepository(base),
		Leases:        NewLeaseRepository(base),
		Invoices:      NewInvoiceRepository(base),
		Payments:      NewPaymentRepository(base),
		Listings:      NewListingRepository(base),
		Maintenance:   NewMaintenanceRepository(base),
		Calendar:      NewCalendarRepository(base),
		Expenses:      NewExpenseRepository(base),
		Vendors:       NewVendorRepository(base),
		Subscriptions: NewSubscriptionRepository(base),
		Invites:       NewInviteRepository(base),
		Applications:  NewApplicationRepository(base),
		Outbox:        NewOutboxRepository(base),
		Ping:          db.PingContext,
	}
}
