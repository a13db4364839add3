// Package memory is a process-local repository driver used by demo mode and
// by scenario tests. Rows live in go-cache tables without expiry.
package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type txKey struct{}

type snapshotter interface {
	snapshot() func()
}

// transactor serialises transactions and rolls every table back when fn fails.
type transactor struct {
	mu     sync.Mutex
	tables []snapshotter
}

// write applies fn directly inside a transaction and under the transaction
// lock otherwise, so a rollback never restores over it.
func (t *transactor) write(ctx context.Context, fn func()) {
	if ctx.Value(txKey{}) != nil {
		fn()
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), len(t.tables))
	for i, tbl := range t.tables {
		restores[i] = tbl.snapshot()
	}

	defer func() {
		if p := recover(); p != nil {
			for _, restore := range restores {
				restore()
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

func cloneInvoice(v *model.Invoice) *model.Invoice {
	cp := *v
	cp.LineItems = append(model.LineItems(nil), v.LineItems...)
	return &cp
}

// NewStore returns an empty in-memory store.
func NewStore() *repository.Store {
	tx := &transactor{}
	orgs := &organizationRepository{newTable[model.Organization](tx, nil)}
	users := &userRepository{newTable[model.User](tx, nil)}
	members := &memberRepository{newOrgTable[model.OrganizationMember](tx, nil)}
	properties := &propertyRepository{newOrgTable[model.Property](tx, nil)}
	units := &unitRepository{newOrgTable[model.Unit](tx, nil)}
	tenants := &tenantRepository{newOrgTable[model.Tenant](tx, nil)}
	leases := &leaseRepository{newOrgTable[model.Lease](tx, nil)}
	invoices := &invoiceRepository{newOrgTable[model.Invoice](tx, cloneInvoice)}
	payments := &paymentRepository{newOrgTable[model.Payment](tx, nil)}
	listings := &listingRepository{newOrgTable[model.Listing](tx, nil)}
	maintenance := &maintenanceRepository{newOrgTable[model.MaintenanceRequest](tx, nil)}
	calendar := &calendarRepository{newOrgTable[model.CalendarEvent](tx, nil)}
	expenses := &expenseRepository{newOrgTable[model.Expense](tx, nil)}
	vendors := &vendorRepository{newOrgTable[model.Vendor](tx, nil)}
	subs := &subscriptionRepository{newOrgTable[model.Subscription](tx, nil)}
	invites := &inviteRepository{newOrgTable[model.ApplicationInvite](tx, nil)}
	apps := &applicationRepository{newOrgTable[model.Application](tx, nil)}
	outbox := &outboxRepository{newTable[model.OutboxEvent](tx, nil)}

	return &repository.Store{
		Tx:            tx,
		Organizations: orgs,
		Users:         users,
		Members:       members,
		Properties:    properties,
		Units:         units,
		Tenants:       tenants,
		Leases:        leases,
		Invoices:      invoices,
		Payments:      payments,
		Listings:      listings,
		Maintenance:   maintenance,
		Calendar:      calendar,
		Expenses:      expenses,
		Vendors:       vendors,
		Subscriptions: subs,
		Invites:       invites,
		Applications:  apps,
		Outbox:        outbox,
		Ping:          func(context.Context) error { return nil },
	}
}
