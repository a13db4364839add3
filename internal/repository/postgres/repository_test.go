package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

func newMock(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewBaseRepository(sqlx.NewDb(db, "postgres")), mock
}

var orgColumns = []string{"id", "name", "slug", "created_at", "updated_at"}

func TestOrganizationRepository_Get(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOrganizationRepository(base)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id = $1 LIMIT 1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(orgColumns).AddRow(id.String(), "Acme", "acme", now, now))

	org, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, org.ID)
	assert.Equal(t, "acme", org.Slug)
}

func TestOrganizationRepository_GetMissing(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOrganizationRepository(base)

	mock.ExpectQuery("FROM organizations WHERE slug = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(orgColumns))

	_, err := repo.GetBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrganizationRepository_CreateDuplicate(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOrganizationRepository(base)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO organizations (id, name, slug, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &model.Organization{Name: "Acme", Slug: "acme"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestOrganizationRepository_UpdateMissing(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOrganizationRepository(base)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE organizations SET name = $1, slug = $2, updated_at = $3 WHERE id = $4")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Organization{Name: "Acme"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInvoiceRepository_ScopesByOrganization(t *testing.T) {
	base, mock := newMock(t)
	repo := NewInvoiceRepository(base)
	orgID, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoices WHERE id = $1 AND organization_id = $2")).
		WithArgs(id, orgID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), orgID, id))
}

func TestInvoiceRepository_ListPastDue(t *testing.T) {
	base, mock := newMock(t)
	repo := NewInvoiceRepository(base)
	orgID := uuid.New()
	asOf := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM invoices WHERE organization_id = $1 AND due_date < $2 AND status = ANY($3) ORDER BY due_date ASC")).
		WithArgs(orgID, asOf, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	invoices, err := repo.ListPastDue(context.Background(), orgID, asOf)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestInvoiceRepository_GetForUpdateLocksRow(t *testing.T) {
	base, mock := newMock(t)
	repo := NewInvoiceRepository(base)
	orgID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM invoices WHERE id = $1 AND organization_id = $2 LIMIT 1 FOR UPDATE")).
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := base.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetForUpdate(ctx, orgID, id)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPaymentRepository_GetForUpdateLocksRow(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPaymentRepository(base)
	orgID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM payments WHERE id = $1 AND organization_id = $2 LIMIT 1 FOR UPDATE")).
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetForUpdate(context.Background(), orgID, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTenantRepository_AdjustBalanceIsRelative(t *testing.T) {
	base, mock := newMock(t)
	repo := NewTenantRepository(base)
	orgID, id := uuid.New(), uuid.New()
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE tenants SET current_balance = current_balance + $1, updated_at = $2 WHERE id = $3 AND organization_id = $4")).
		WithArgs(int64(-2500), at, id, orgID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET current_balance = current_balance + $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AdjustBalance(context.Background(), orgID, id, -2500, at))
	err := repo.AdjustBalance(context.Background(), orgID, uuid.New(), 1, at)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTenantRepository_UpdateSkipsBalance(t *testing.T) {
	base, mock := newMock(t)
	repo := NewTenantRepository(base)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE tenants SET first_name = $1, last_name = $2, email = $3, phone = $4, property_id = $5, " +
			"unit_id = $6, lease_id = $7, user_id = $8, status = $9, portal_status = $10, " +
			"emergency_contact = $11, notes = $12, updated_at = $13 WHERE id = $14 AND organization_id = $15")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tenant := &model.Tenant{FirstName: "Ada", CurrentBalance: 999}
	require.NoError(t, repo.Update(context.Background(), tenant))
}

func TestWithinTx(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		base, mock := newMock(t)
		repo := NewOrganizationRepository(base)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO organizations").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := base.WithinTx(context.Background(), func(ctx context.Context) error {
			return repo.Create(ctx, &model.Organization{Name: "Acme", Slug: "acme"})
		})
		require.NoError(t, err)
	})

	t.Run("rolls back", func(t *testing.T) {
		base, mock := newMock(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := base.WithinTx(context.Background(), func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nested calls join", func(t *testing.T) {
		base, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := base.WithinTx(context.Background(), func(ctx context.Context) error {
			return base.WithinTx(ctx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
	})
}

func TestWhere(t *testing.T) {
	w := newWhere()
	assert.Equal(t, "", w.sql())

	w.add("organization_id = $%d", 1).add("status = $%d", "paid")
	assert.Equal(t, " WHERE organization_id = $1 AND status = $2", w.sql())
	assert.Len(t, w.args, 2)
}
