package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/property-api/internal/model"
)

type propertyRepository struct {
	orgTable[model.Property, *model.Property]
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	r.put(ctx, property)
	return nil
}

func (r *propertyRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Property, error) {
	return r.getIn(orgID, id)
}

func (r *propertyRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Property, error) {
	return r.many(orgID, ids), nil
}

func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return r.updateIn(ctx, property)
}

func (r *propertyRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *propertyRepository) List(ctx context.Context, orgID uuid.UUID, filter model.PropertyFilter) ([]*model.Property, error) {
	search := strings.ToLower(filter.Search)
	rows := r.inOrg(orgID, func(p *model.Property) bool {
		if filter.Type != "" && p.Type != filter.Type {
			return false
		}
		if filter.Status != "" && p.Status != filter.Status {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Street), search) &&
			!strings.Contains(strings.ToLower(p.City), search) {
			return false
		}
		return true
	})
	newestFirst(rows)
	return rows, nil
}

type unitRepository struct {
	orgTable[model.Unit, *model.Unit]
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	r.put(ctx, unit)
	return nil
}

func (r *unitRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Unit, error) {
	return r.getIn(orgID, id)
}

func (r *unitRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Unit, error) {
	return r.many(orgID, ids), nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return r.updateIn(ctx, unit)
}

func (r *unitRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *unitRepository) DeleteByProperty(ctx context.Context, orgID, propertyID uuid.UUID) error {
	for _, u := range r.inOrg(orgID, func(u *model.Unit) bool { return u.PropertyID == propertyID }) {
		r.remove(ctx, u.ID)
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context, orgID uuid.UUID, filter model.UnitFilter) ([]*model.Unit, error) {
	rows := r.inOrg(orgID, func(u *model.Unit) bool {
		if filter.PropertyID != nil && u.PropertyID != *filter.PropertyID {
			return false
		}
		return filter.Status == "" || u.Status == filter.Status
	})
	byUnitNumber(rows)
	return rows, nil
}

func (r *unitRepository) ListByProperties(ctx context.Context, orgID uuid.UUID, propertyIDs []uuid.UUID) ([]*model.Unit, error) {
	set := idSet(propertyIDs)
	rows := r.inOrg(orgID, func(u *model.Unit) bool {
		_, ok := set[u.PropertyID]
		return ok
	})
	byUnitNumber(rows)
	return rows, nil
}

func byUnitNumber(units []*model.Unit) {
	sort.SliceStable(units, func(i, j int) bool { return units[i].UnitNumber < units[j].UnitNumber })
}

type tenantRepository struct {
	orgTable[model.Tenant, *model.Tenant]
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	r.put(ctx, tenant)
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Tenant, error) {
	return r.getIn(orgID, id)
}

func (r *tenantRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Tenant, error) {
	return r.many(orgID, ids), nil
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	var err error
	r.tx.write(ctx, func() {
		stored, getErr := r.getIn(tenant.OrganizationID, tenant.ID)
		if getErr != nil {
			err = getErr
			return
		}
		cp := *tenant
		cp.CurrentBalance = stored.CurrentBalance
		r.c.Set(cp.ID.String(), &cp, cache.NoExpiration)
	})
	return err
}

func (r *tenantRepository) AdjustBalance(ctx context.Context, orgID, id uuid.UUID, delta int64, at time.Time) error {
	var err error
	r.tx.write(ctx, func() {
		stored, getErr := r.getIn(orgID, id)
		if getErr != nil {
			err = getErr
			return
		}
		stored.CurrentBalance += delta
		stored.UpdatedAt = at
		r.c.Set(id.String(), stored, cache.NoExpiration)
	})
	return err
}

func (r *tenantRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *tenantRepository) List(ctx context.Context, orgID uuid.UUID, filter model.TenantFilter) ([]*model.Tenant, error) {
	rows := r.inOrg(orgID, func(t *model.Tenant) bool {
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		return filter.PropertyID == nil || (t.PropertyID != nil && *t.PropertyID == *filter.PropertyID)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LastName != rows[j].LastName {
			return rows[i].LastName < rows[j].LastName
		}
		return rows[i].FirstName < rows[j].FirstName
	})
	return rows, nil
}

type leaseRepository struct {
	orgTable[model.Lease, *model.Lease]
}

func (r *leaseRepository) Create(ctx context.Context, lease *model.Lease) error {
	r.put(ctx, lease)
	return nil
}

func (r *leaseRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Lease, error) {
	return r.getIn(orgID, id)
}

func (r *leaseRepository) Update(ctx context.Context, lease *model.Lease) error {
	return r.updateIn(ctx, lease)
}

func (r *leaseRepository) List(ctx context.Context, orgID uuid.UUID, filter model.LeaseFilter) ([]*model.Lease, error) {
	rows := r.inOrg(orgID, func(l *model.Lease) bool {
		if filter.Status != "" && l.Status != filter.Status {
			return false
		}
		if filter.TenantID != nil && l.TenantID != *filter.TenantID {
			return false
		}
		return filter.PropertyID == nil || l.PropertyID == *filter.PropertyID
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartDate.After(rows[j].StartDate) })
	return rows, nil
}

// newestFirst reverses the oldest-first order scan returns.
func newestFirst[T any](rows []*T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
