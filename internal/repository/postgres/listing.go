package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type listingRepository struct {
	table[model.Listing]
}

func NewListingRepository(base BaseRepository) repository.ListingRepository {
	return &listingRepository{newTable[model.Listing](base, "listings", true,
		"id", "organization_id", "unit_id", "property_id", "title", "slug", "description",
		"rent_amount", "deposit", "bedrooms", "bathrooms", "city", "available_at", "amenities",
		"image_ids", "pets_allowed", "status", "published_at", "contact_email",
		"created_at", "updated_at")}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return r.insert(ctx, listing)
}

func (r *listingRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return r.get(ctx, orgID, id)
}

func (r *listingRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	return r.one(ctx, newWhere().add("slug = $%d", slug))
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	return r.update(ctx, listing)
}

func (r *listingRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *listingRepository) List(ctx context.Context, orgID uuid.UUID, filter model.ListingFilter) ([]*model.Listing, error) {
	w := orgWhere(orgID)
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	return r.list(ctx, w, "created_at DESC")
}

func (r *listingRepository) ListActive(ctx context.Context) ([]*model.Listing, error) {
	return r.list(ctx, newWhere().add("status = $%d", model.ListingStatusActive), "published_at DESC")
}
