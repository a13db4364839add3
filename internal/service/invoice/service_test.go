package invoice

import (
	"context"
	"errors"
	"sync"
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
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
)

type recordingMailer struct {
	mu        sync.Mutex
	invoices  []email.InvoiceMessage
	reminders []email.InvoiceMessage
	fail      bool
}

func (m *recordingMailer) SendInvoice(_ context.Context, msg email.InvoiceMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.invoices = append(m.invoices, msg)
	return nil
}

func (m *recordingMailer) SendInvoiceReminder(_ context.Context, msg email.InvoiceMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, msg)
	return nil
}

func (m *recordingMailer) SendPortalInvite(context.Context, string, string, string) error { return nil }

func (m *recordingMailer) SendApplicationInvite(context.Context, string, string, string, string) error {
	return nil
}

func (m *recordingMailer) SendCustom(context.Context, string, string, string) error { return nil }

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *repository.Store
	svc    *Service
	mailer *recordingMailer
	orgID  uuid.UUID
	tenant *model.Tenant
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	org := &model.Organization{Name: "Acme Rentals", Slug: "acme-rentals"}
	org.Stamp(now)
	require.NoError(t, store.Organizations.Create(ctx, org))

	tenant := &model.Tenant{
		OrgScope:     model.OrgScope{OrganizationID: org.ID},
		FirstName:    "Dana",
		LastName:     "Reyes",
		Email:        "dana@example.com",
		Status:       model.TenantStatusCurrent,
		PortalStatus: model.PortalStatusNone,
	}
	tenant.Stamp(now)
	require.NoError(t, store.Tenants.Create(ctx, tenant))

	mailer := &recordingMailer{}
	svc := NewService(store, event.NewEmitter(store.Outbox), mailer, metrics.NewNop(),
		Config{DueDays: 14, DefaultLateFee: 5000, AppURL: "https://app.example.com"}, logger.Nop())
	svc.clock = func() time.Time { return now }

	return &fixture{store: store, svc: svc, mailer: mailer, orgID: org.ID, tenant: tenant}
}

func (f *fixture) create(t *testing.T, send bool, amounts ...int64) *model.Invoice {
	t.Helper()
	items := make([]model.LineItem, len(amounts))
	for i, a := range amounts {
		items[i] = model.LineItem{Description: "Rent", Amount: a, Type: model.LineItemRent}
	}
	inv, err := f.svc.Create(context.Background(), f.orgID, &model.CreateInvoiceRequest{
		TenantID:        f.tenant.ID.String(),
		LineItems:       items,
		SendImmediately: send,
	})
	require.NoError(t, err)
	return inv
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	tenant, err := f.store.Tenants.Get(context.Background(), f.orgID, f.tenant.ID)
	require.NoError(t, err)
	return tenant.CurrentBalance
}

func TestCreate(t *testing.T) {
	f := setup(t)

	draft := f.create(t, false, 150000, 2500)
	assert.Equal(t, model.InvoiceStatusDraft, draft.Status)
	assert.Regexp(t, `^INV-[0-9A-Z]{26}$`, draft.InvoiceNumber)
	assert.Equal(t, int64(152500), draft.Total)
	assert.Equal(t, int64(152500), draft.AmountDue)
	assert.Equal(t, now.AddDate(0, 0, 14), draft.DueDate)
	assert.Zero(t, f.balance(t), "drafts do not touch the balance")
	assert.Empty(t, f.mailer.invoices)

	sent := f.create(t, true, 100000)
	assert.Equal(t, model.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, int64(100000), f.balance(t))
	require.Len(t, f.mailer.invoices, 1)
	assert.Equal(t, "Acme Rentals", f.mailer.invoices[0].OrgName)
	assert.Equal(t, "Dana Reyes", f.mailer.invoices[0].TenantName)
}

func TestCreate_UnknownTenant(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Create(context.Background(), f.orgID, &model.CreateInvoiceRequest{
		TenantID:  uuid.NewString(),
		LineItems: []model.LineItem{{Description: "Rent", Amount: 100}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))
	assert.EqualError(t, err, "Tenant not found")
}

func TestMarkAsPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 120000)

	paid, payment, err := f.svc.MarkAsPaid(ctx, f.orgID, inv.ID, &model.MarkPaidRequest{Method: model.PaymentMethodACH})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.Zero(t, paid.AmountDue)
	assert.Equal(t, paid.Total, paid.AmountPaid)
	assert.Equal(t, paid.Total, payment.Amount)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.False(t, payment.IsLate)
	assert.Zero(t, f.balance(t))

	payments, err := f.store.Payments.List(ctx, f.orgID, model.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, inv.ID, *payments[0].InvoiceID)

	events, err := f.store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.ElementsMatch(t, []string{model.EventInvoiceSent, model.EventInvoicePaid}, types)
}

// A second call is refused by the invoice lifecycle, so only one payment
// is ever written for an invoice.
func TestMarkAsPaid_Twice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 80000)

	_, _, err := f.svc.MarkAsPaid(ctx, f.orgID, inv.ID, &model.MarkPaidRequest{})
	require.NoError(t, err)

	_, _, err = f.svc.MarkAsPaid(ctx, f.orgID, inv.ID, &model.MarkPaidRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	payments, err := f.store.Payments.List(ctx, f.orgID, model.PaymentFilter{})
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Zero(t, f.balance(t))
}

func TestMarkAsPaid_Concurrent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 90000)

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		okays  int
		refuse int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.MarkAsPaid(ctx, f.orgID, inv.ID, &model.MarkPaidRequest{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okays++
			} else if errors.Is(err, apperrors.InvalidTransitionErr) {
				refuse++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okays)
	assert.Equal(t, callers-1, refuse)

	payments, err := f.store.Payments.List(ctx, f.orgID, model.PaymentFilter{})
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Zero(t, f.balance(t))
}

// Settling a partially paid invoice only records what is still owed.
func TestMarkAsPaid_AfterPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 1000)

	_, err := f.svc.ApplyPayment(ctx, f.orgID, inv.ID, 400, now)
	require.NoError(t, err)
	before := f.balance(t)

	paid, payment, err := f.svc.MarkAsPaid(ctx, f.orgID, inv.ID, &model.MarkPaidRequest{Method: model.PaymentMethodCheck})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, int64(600), payment.Amount)
	assert.NotEqual(t, paid.Total, payment.Amount)
	assert.Equal(t, paid.Total, paid.AmountPaid)
	assert.Zero(t, paid.AmountDue)
	assert.Equal(t, before-600, f.balance(t))
}

func TestMarkAsPaid_Late(t *testing.T) {
	f := setup(t)
	inv := f.create(t, true, 50000)

	paidAt := inv.DueDate.Add(48 * time.Hour)
	_, payment, err := f.svc.MarkAsPaid(context.Background(), f.orgID, inv.ID, &model.MarkPaidRequest{PaidAt: &paidAt})
	require.NoError(t, err)
	assert.True(t, payment.IsLate)
	assert.Equal(t, model.PaymentMethodOther, payment.Method)
}

func TestMarkAsPaid_Draft(t *testing.T) {
	f := setup(t)
	inv := f.create(t, false, 50000)

	_, _, err := f.svc.MarkAsPaid(context.Background(), f.orgID, inv.ID, &model.MarkPaidRequest{})
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
}

func TestApplyLateFee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 100000)

	updated, err := f.svc.ApplyLateFee(ctx, f.orgID, inv.ID, 7500)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOverdue, updated.Status)
	assert.Equal(t, inv.Total+7500, updated.Total)
	assert.Equal(t, inv.AmountDue+7500, updated.AmountDue)
	require.Len(t, updated.LineItems, len(inv.LineItems)+1)
	last := updated.LineItems[len(updated.LineItems)-1]
	assert.Equal(t, model.LineItemLateFee, last.Type)
	assert.Equal(t, int64(7500), last.Amount)
	assert.Equal(t, int64(107500), f.balance(t))

	again, err := f.svc.ApplyLateFee(ctx, f.orgID, inv.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, updated.Total+5000, again.Total)
}

func TestApplyLateFee_RejectsDraftAndPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	draft := f.create(t, false, 100)
	_, err := f.svc.ApplyLateFee(ctx, f.orgID, draft.ID, 10)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))

	sent := f.create(t, true, 100)
	_, _, err = f.svc.MarkAsPaid(ctx, f.orgID, sent.ID, &model.MarkPaidRequest{})
	require.NoError(t, err)
	_, err = f.svc.ApplyLateFee(ctx, f.orgID, sent.ID, 10)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
}

func TestSendAndCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, false, 60000)

	sent, err := f.svc.Send(ctx, f.orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, sent.Status)
	assert.Equal(t, int64(60000), f.balance(t))

	viewed, err := f.svc.MarkViewed(ctx, f.orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusViewed, viewed.Status)

	cancelled, err := f.svc.Cancel(ctx, f.orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, cancelled.Status)
	assert.Zero(t, f.balance(t))

	_, err = f.svc.Send(ctx, f.orgID, inv.ID)
	assert.True(t, errors.Is(err, apperrors.InvalidTransitionErr))
}

func TestSendReminder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	draft := f.create(t, false, 100)
	_, err := f.svc.SendReminder(ctx, f.orgID, draft.ID)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))

	sent := f.create(t, true, 100)
	reminded, err := f.svc.SendReminder(ctx, f.orgID, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reminded.ReminderCount)
	require.NotNil(t, reminded.LastReminderAt)
	assert.Len(t, f.mailer.reminders, 1)
}

func TestMarkOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 100)
	f.create(t, false, 100)

	f.svc.clock = func() time.Time { return inv.DueDate.Add(time.Hour) }
	moved, err := f.svc.MarkOverdue(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	got, err := f.svc.Get(ctx, f.orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOverdue, got.Status)
	require.NotNil(t, got.Tenant)

	moved, err = f.svc.MarkOverdue(ctx, f.orgID)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestApplyPayment_Partial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.create(t, true, 1000)

	partial, err := f.svc.ApplyPayment(ctx, f.orgID, inv.ID, 400, now)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartial, partial.Status)
	assert.Equal(t, int64(600), partial.AmountDue)

	_, err = f.svc.ApplyPayment(ctx, f.orgID, inv.ID, 700, now)
	assert.True(t, errors.Is(err, apperrors.BadRequestErr))

	paid, err := f.svc.ApplyPayment(ctx, f.orgID, inv.ID, 600, now)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sent := f.create(t, true, 100)
	err := f.svc.Delete(ctx, f.orgID, sent.ID)
	assert.True(t, errors.Is(err, apperrors.ConflictErr))

	draft := f.create(t, false, 100)
	require.NoError(t, f.svc.Delete(ctx, f.orgID, draft.ID))
	_, err = f.svc.Get(ctx, f.orgID, draft.ID)
	assert.True(t, errors.Is(err, apperrors.NotFoundErr))
}

func TestStatsAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, false, 100)
	open := f.create(t, true, 2000)
	paid := f.create(t, true, 3000)
	_, _, err := f.svc.MarkAsPaid(ctx, f.orgID, paid.ID, &model.MarkPaidRequest{})
	require.NoError(t, err)
	_, err = f.svc.ApplyLateFee(ctx, f.orgID, open.ID, 500)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, &model.InvoiceStats{
		Outstanding:   2500,
		OpenCount:     1,
		OverdueCount:  1,
		OverdueAmount: 2500,
		PaidThisMonth: 3000,
		DraftCount:    1,
	}, stats)

	views, err := f.svc.List(ctx, f.orgID, model.InvoiceFilter{Status: model.InvoiceStatusPaid})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.tenant.ID, views[0].Tenant.ID)
}

func TestMailFailureDoesNotFailCreate(t *testing.T) {
	f := setup(t)
	f.mailer.fail = true
	inv := f.create(t, true, 100)
	assert.Equal(t, model.InvoiceStatusSent, inv.Status)
}
