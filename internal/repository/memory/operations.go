package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type listingRepository struct {
	orgTable[model.Listing, *model.Listing]
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if _, taken := r.first(func(l *model.Listing) bool { return l.Slug == listing.Slug }); taken {
		return repository.ErrDuplicate
	}
	r.put(ctx, listing)
	return nil
}

func (r *listingRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return r.getIn(orgID, id)
}

func (r *listingRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	l, ok := r.first(func(l *model.Listing) bool { return l.Slug == slug })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	return r.updateIn(ctx, listing)
}

func (r *listingRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *listingRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ListingFilter) ([]*model.Listing, error) {
	rows := r.inOrg(orgID, func(l *model.Listing) bool {
		if filter.Status != "" && l.Status != filter.Status {
			return false
		}
		return filter.PropertyID == nil || l.PropertyID == *filter.PropertyID
	})
	newestFirst(rows)
	return rows, nil
}

func (r *listingRepository) ListActive(ctx context.Context) ([]*model.Listing, error) {
	rows := r.scan(func(l *model.Listing) bool { return l.Status == model.ListingStatusActive })
	newestFirst(rows)
	return rows, nil
}

type maintenanceRepository struct {
	orgTable[model.MaintenanceRequest, *model.MaintenanceRequest]
}

func (r *maintenanceRepository) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	r.put(ctx, req)
	return nil
}

func (r *maintenanceRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.MaintenanceRequest, error) {
	return r.getIn(orgID, id)
}

func (r *maintenanceRepository) Update(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.updateIn(ctx, req)
}

func (r *maintenanceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *maintenanceRepository) List(ctx context.Context, orgID uuid.UUID, filter model.MaintenanceFilter) ([]*model.MaintenanceRequest, error) {
	rows := r.inOrg(orgID, func(m *model.MaintenanceRequest) bool {
		if filter.Status != "" && m.Status != filter.Status {
			return false
		}
		if filter.Priority != "" && m.Priority != filter.Priority {
			return false
		}
		return filter.PropertyID == nil || m.PropertyID == *filter.PropertyID
	})
	newestFirst(rows)
	return rows, nil
}

func (r *maintenanceRepository) ListByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]*model.MaintenanceRequest, error) {
	rows := r.inOrg(orgID, func(m *model.MaintenanceRequest) bool {
		return m.VendorID != nil && *m.VendorID == vendorID
	})
	newestFirst(rows)
	return rows, nil
}

type calendarRepository struct {
	orgTable[model.CalendarEvent, *model.CalendarEvent]
}

func (r *calendarRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	r.put(ctx, event)
	return nil
}

func (r *calendarRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error) {
	return r.getIn(orgID, id)
}

func (r *calendarRepository) Update(ctx context.Context, event *model.CalendarEvent) error {
	return r.updateIn(ctx, event)
}

func (r *calendarRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *calendarRepository) List(ctx context.Context, orgID uuid.UUID, filter model.CalendarFilter) ([]*model.CalendarEvent, error) {
	rows := r.inOrg(orgID, func(e *model.CalendarEvent) bool {
		if filter.Type != "" && e.Type != filter.Type {
			return false
		}
		if filter.PropertyID != nil && (e.PropertyID == nil || *e.PropertyID != *filter.PropertyID) {
			return false
		}
		return e.Overlaps(filter.DateRange)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartTime.Before(rows[j].StartTime) })
	return rows, nil
}

type vendorRepository struct {
	orgTable[model.Vendor, *model.Vendor]
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	r.put(ctx, vendor)
	return nil
}

func (r *vendorRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Vendor, error) {
	return r.getIn(orgID, id)
}

func (r *vendorRepository) GetMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*model.Vendor, error) {
	return r.many(orgID, ids), nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return r.updateIn(ctx, vendor)
}

func (r *vendorRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.deleteIn(ctx, orgID, id)
}

func (r *vendorRepository) List(ctx context.Context, orgID uuid.UUID, filter model.VendorFilter) ([]*model.Vendor, error) {
	search := strings.ToLower(filter.Search)
	rows := r.inOrg(orgID, func(v *model.Vendor) bool {
		if filter.Status != "" && v.Status != filter.Status {
			return false
		}
		if filter.Category != "" && !v.HasCategory(filter.Category) {
			return false
		}
		if search == "" {
			return true
		}
		if strings.Contains(strings.ToLower(v.Name), search) {
			return true
		}
		return v.CompanyName != nil && strings.Contains(strings.ToLower(*v.CompanyName), search)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

type inviteRepository struct {
	orgTable[model.ApplicationInvite, *model.ApplicationInvite]
}

func (r *inviteRepository) Create(ctx context.Context, invite *model.ApplicationInvite) error {
	r.put(ctx, invite)
	return nil
}

func (r *inviteRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.ApplicationInvite, error) {
	return r.getIn(orgID, id)
}

func (r *inviteRepository) Lookup(ctx context.Context, id uuid.UUID) (*model.ApplicationInvite, error) {
	invite, ok := r.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return invite, nil
}

func (r *inviteRepository) Update(ctx context.Context, invite *model.ApplicationInvite) error {
	return r.updateIn(ctx, invite)
}

func (r *inviteRepository) List(ctx context.Context, orgID uuid.UUID, filter model.InviteFilter) ([]*model.ApplicationInvite, error) {
	rows := r.inOrg(orgID, func(i *model.ApplicationInvite) bool {
		return filter.Status == "" || i.Status == filter.Status
	})
	newestFirst(rows)
	return rows, nil
}

type applicationRepository struct {
	orgTable[model.Application, *model.Application]
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	r.put(ctx, app)
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Application, error) {
	return r.getIn(orgID, id)
}

func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	return r.updateIn(ctx, app)
}

func (r *applicationRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ApplicationFilter) ([]*model.Application, error) {
	rows := r.inOrg(orgID, func(a *model.Application) bool {
		if filter.Status != "" && a.Status != filter.Status {
			return false
		}
		return filter.ListingID == nil || (a.ListingID != nil && *a.ListingID == *filter.ListingID)
	})
	newestFirst(rows)
	return rows, nil
}
