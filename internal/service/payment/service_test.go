package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/email"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/internal/service/event"
	"github.com/jwalitptl/property-api/internal/service/invoice"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
)

var now = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*repository.Store, *Service, *invoice.Service, uuid.UUID, *model.Tenant) {
	t.Helper()
	store := memory.NewStore()
	orgID := uuid.New()

	tenant := &model.Tenant{
		OrgScope:  model.OrgScope{OrganizationID: orgID},
		FirstName: "Sam",
		Email:     "sam@example.com",
		Status:    model.TenantStatusCurrent,
	}
	tenant.Stamp(now)
	require.NoError(t, store.Tenants.Create(context.Background(), tenant))

	m := metrics.NewNop()
	events := event.NewEmitter(store.Outbox)
	invoices := invoice.NewService(store, events, email.NewService(email.Config{}, logger.Nop()), m, invoice.Config{}, logger.Nop())
	svc := NewService(store, invoices, events, m, logger.Nop())
	svc.clock = func() time.Time { return now }
	return store, svc, invoices, orgID, tenant
}

func balance(t *testing.T, store *repository.Store, orgID, tenantID uuid.UUID) int64 {
	t.Helper()
	tenant, err := store.Tenants.Get(context.Background(), orgID, tenantID)
	require.NoError(t, err)
	return tenant.CurrentBalance
}

func TestRecord_Standalone(t *testing.T) {
	store, svc, _, orgID, tenant := setup(t)
	due := now.Add(-24 * time.Hour)

	p, err := svc.Record(context.Background(), orgID, &model.RecordPaymentRequest{
		TenantID: tenant.ID.String(),
		Amount:   45000,
		Method:   model.PaymentMethodCash,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
	assert.True(t, p.IsLate)
	assert.Equal(t, now, p.PaidAt)
	assert.Equal(t, int64(-45000), balance(t, store, orgID, tenant.ID))
}

func TestRecord_AgainstInvoice(t *testing.T) {
	store, svc, invoices, orgID, tenant := setup(t)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, orgID, &model.CreateInvoiceRequest{
		TenantID:        tenant.ID.String(),
		LineItems:       []model.LineItem{{Description: "Rent", Amount: 90000}},
		SendImmediately: true,
	})
	require.NoError(t, err)

	_, err = svc.Record(ctx, orgID, &model.RecordPaymentRequest{
		TenantID:  tenant.ID.String(),
		InvoiceID: ptr(inv.ID.String()),
		Amount:    30000,
		Method:    model.PaymentMethodCard,
	})
	require.NoError(t, err)

	got, err := invoices.Get(ctx, orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartial, got.Status)
	assert.Equal(t, int64(60000), got.AmountDue)
	assert.Equal(t, int64(60000), balance(t, store, orgID, tenant.ID))

	_, err = svc.Record(ctx, orgID, &model.RecordPaymentRequest{
		TenantID:  tenant.ID.String(),
		InvoiceID: ptr(inv.ID.String()),
		Amount:    70000,
		Method:    model.PaymentMethodCard,
	})
	require.True(t, errors.Is(err, apperrors.BadRequestErr))

	payments, err := svc.List(ctx, orgID, model.PaymentFilter{})
	require.NoError(t, err)
	assert.Len(t, payments, 1, "the rejected payment rolls back")
	assert.Equal(t, int64(60000), balance(t, store, orgID, tenant.ID))
}

func TestRecord_UnknownTenant(t *testing.T) {
	_, svc, _, orgID, _ := setup(t)
	_, err := svc.Record(context.Background(), orgID, &model.RecordPaymentRequest{
		TenantID: uuid.NewString(),
		Amount:   1,
		Method:   model.PaymentMethodCash,
	})
	assert.EqualError(t, err, "Tenant not found")
}

func TestRefund(t *testing.T) {
	store, svc, _, orgID, tenant := setup(t)
	ctx := context.Background()

	p, err := svc.Record(ctx, orgID, &model.RecordPaymentRequest{
		TenantID: tenant.ID.String(),
		Amount:   2000,
		Method:   model.PaymentMethodCheck,
	})
	require.NoError(t, err)

	refunded, err := svc.Refund(ctx, orgID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.Status)
	require.NotNil(t, refunded.RefundedAt)
	assert.Zero(t, balance(t, store, orgID, tenant.ID))

	_, err = svc.Refund(ctx, orgID, p.ID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	stats, err := svc.Stats(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), stats.RefundedAmount)
	assert.Zero(t, stats.CollectedThisMonth)
}

func ptr[T any](v T) *T { return &v }
