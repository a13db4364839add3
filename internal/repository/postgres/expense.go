package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type expenseRepository struct {
	table[model.Expense]
}

func NewExpenseRepository(base BaseRepository) repository.ExpenseRepository {
	return &expenseRepository{newTable[model.Expense](base, "expenses", true,
		"id", "organization_id", "property_id", "unit_id", "vendor_id", "maintenance_id",
		"category", "description", "amount", "date", "status", "receipt_id", "notes",
		"created_at", "updated_at")}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.insert(ctx, expense)
}

func (r *expenseRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Expense, error) {
	return r.get(ctx, orgID, id)
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.update(ctx, expense)
}

func (r *expenseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *expenseRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ExpenseFilter) ([]*model.Expense, error) {
	w := orgWhere(orgID)
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	if filter.VendorID != nil {
		w.add("vendor_id = $%d", *filter.VendorID)
	}
	if filter.Category != "" {
		w.add("category = $%d", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.From != nil {
		w.add("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("date <= $%d", *filter.To)
	}
	return r.list(ctx, w, "date DESC")
}
