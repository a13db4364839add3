package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
)

var (
	// ErrNotFound is returned by every driver when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write breaks a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Transactor runs fn inside a single transaction. Repositories called with
// the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// All repository interfaces in one file. Org-scoped reads take the
// organization id explicitly and never match rows of another organization.
type (
	OrganizationRepository interface {
		Create(ctx context.Context, org *model.Organization) error
		Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
		GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Organization, error)
		Update(ctx context.Context, org *model.Organization) error
		List(ctx context.Context) ([]*model.Organization, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetBySubject(ctx context.Context, subject string) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	MemberRepository interface {
		Create(ctx context.Context, member *model.OrganizationMember) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.OrganizationMember, error)
		GetByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error)
		ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationMember, error)
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.OrganizationMember, error)
		Update(ctx context.Context, member *model.OrganizationMember) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
	}

	PropertyRepository interface {
		Create(ctx context.Context, property *model.Property) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Property, error)
		GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Property, error)
		Update(ctx context.Context, property *model.Property) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.PropertyFilter) ([]*model.Property, error)
	}

	UnitRepository interface {
		Create(ctx context.Context, unit *model.Unit) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Unit, error)
		GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Unit, error)
		Update(ctx context.Context, unit *model.Unit) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.UnitFilter) ([]*model.Unit, error)
		ListByProperties(ctx context.Context, orgID uuid.UUID, propertyIDs []uuid.UUID) ([]*model.Unit, error)
	}

	TenantRepository interface {
		Create(ctx context.Context, tenant *model.Tenant) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error)
		GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Tenant, error)
		// Update leaves current_balance alone; AdjustBalance owns it.
		Update(ctx context.Context, tenant *model.Tenant) error
		AdjustBalance(ctx context.Context, orgID, id uuid.UUID, delta int64, at time.Time) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.TenantFilter) ([]*model.Tenant, error)
	}

	LeaseRepository interface {
		Create(ctx context.Context, lease *model.Lease) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error)
		Update(ctx context.Context, lease *model.Lease) error
		List(ctx context.Context, orgID uuid.UUID, filter model.LeaseFilter) ([]*model.Lease, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
		// GetForUpdate reads the invoice and locks it until the surrounding
		// transaction ends.
		GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.InvoiceFilter) ([]*model.Invoice, error)
		// ListPastDue returns issued, unpaid invoices whose due date is before asOf.
		ListPastDue(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]*model.Invoice, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error)
		GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*model.Payment, error)
		Update(ctx context.Context, payment *model.Payment) error
		List(ctx context.Context, orgID uuid.UUID, filter model.PaymentFilter) ([]*model.Payment, error)
	}

	ListingRepository interface {
		Create(ctx context.Context, listing *model.Listing) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error)
		GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
		Update(ctx context.Context, listing *model.Listing) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.ListingFilter) ([]*model.Listing, error)
		ListActive(ctx context.Context) ([]*model.Listing, error)
	}

	MaintenanceRepository interface {
		Create(ctx context.Context, req *model.MaintenanceRequest) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.MaintenanceRequest, error)
		Update(ctx context.Context, req *model.MaintenanceRequest) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.MaintenanceFilter) ([]*model.MaintenanceRequest, error)
		ListByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]*model.MaintenanceRequest, error)
	}

	CalendarRepository interface {
		Create(ctx context.Context, event *model.CalendarEvent) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error)
		Update(ctx context.Context, event *model.CalendarEvent) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.CalendarFilter) ([]*model.CalendarEvent, error)
	}

	ExpenseRepository interface {
		Create(ctx context.Context, expense *model.Expense) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Expense, error)
		Update(ctx context.Context, expense *model.Expense) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.ExpenseFilter) ([]*model.Expense, error)
	}

	VendorRepository interface {
		Create(ctx context.Context, vendor *model.Vendor) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Vendor, error)
		GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Vendor, error)
		Update(ctx context.Context, vendor *model.Vendor) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filter model.VendorFilter) ([]*model.Vendor, error)
	}

	SubscriptionRepository interface {
		Create(ctx context.Context, sub *model.Subscription) error
		GetByOrganization(ctx context.Context, orgID uuid.UUID) (*model.Subscription, error)
		Update(ctx context.Context, sub *model.Subscription) error
	}

	InviteRepository interface {
		Create(ctx context.Context, invite *model.ApplicationInvite) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.ApplicationInvite, error)
		// Lookup resolves an invite by id alone, for anonymous token holders.
		Lookup(ctx context.Context, id uuid.UUID) (*model.ApplicationInvite, error)
		Update(ctx context.Context, invite *model.ApplicationInvite) error
		List(ctx context.Context, orgID uuid.UUID, filter model.InviteFilter) ([]*model.ApplicationInvite, error)
	}

	ApplicationRepository interface {
		Create(ctx context.Context, app *model.Application) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error)
		Update(ctx context.Context, app *model.Application) error
		List(ctx context.Context, orgID uuid.UUID, filter model.ApplicationFilter) ([]*model.Application, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)

// Store bundles every repository of one driver with its transactor.
type Store struct {
	Tx            Transactor
	Organizations OrganizationRepository
	Users         UserRepository
	Members       MemberRepository
	Properties    PropertyRepository
	Units         UnitRepository
	Tenants       TenantRepository
	Leases        LeaseRepository
	Invoices      InvoiceRepository
	Payments      PaymentRepository
	Listings      ListingRepository
	Maintenance   MaintenanceRepository
	Calendar      CalendarRepository
	Expenses      ExpenseRepository
	Vendors       VendorRepository
	Subscriptions SubscriptionRepository
	Invites       InviteRepository
	Applications  ApplicationRepository
	Outbox        OutboxRepository
	// Ping reports whether the backing store is reachable.
	Ping func(ctx context.Context) error
}
