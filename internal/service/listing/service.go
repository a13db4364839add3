package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/slug"
)

type ListingServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateListingRequest) (*model.Listing, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.ListingView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.ListingFilter) ([]*model.ListingView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateListingRequest) (*model.Listing, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	Publish(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error)
	Pause(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error)
	MarkRented(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error)
	Expire(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.ListingView, error)
	ListPublic(ctx context.Context, filter model.MarketplaceFilter) ([]*model.ListingView, error)
}

type Service struct {
	store *repository.Store
	clock service.Clock
	log   *logger.Logger
}

func NewService(store *repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, clock: service.SystemClock, log: log}
}

// Create drafts a listing for a unit. Size and location are copied from the
// unit and its property; rent defaults to the unit's rent.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateListingRequest) (*model.Listing, error) {
	unitID, err := service.ParseID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	unit, err := s.store.Units.Get(ctx, orgID, unitID)
	if err != nil {
		return nil, service.Wrap(err, "Unit", "get")
	}
	property, err := s.store.Properties.Get(ctx, orgID, unit.PropertyID)
	if err != nil {
		return nil, service.Wrap(err, "Property", "get")
	}

	now := s.clock()
	l := &model.Listing{
		OrgScope:     model.OrgScope{OrganizationID: orgID},
		UnitID:       unit.ID,
		PropertyID:   property.ID,
		Title:        req.Title,
		Slug:         slug.WithTime(req.Title, now),
		Description:  req.Description,
		RentAmount:   unit.RentAmount,
		Deposit:      req.Deposit,
		Bedrooms:     unit.Bedrooms,
		Bathrooms:    unit.Bathrooms,
		City:         property.City,
		AvailableAt:  req.AvailableAt,
		Amenities:    req.Amenities,
		ImageIDs:     req.ImageIDs,
		PetsAllowed:  req.PetsAllowed,
		Status:       model.ListingStatusDraft,
		ContactEmail: req.ContactEmail,
	}
	if req.RentAmount != nil {
		l.RentAmount = *req.RentAmount
	}
	l.Stamp(now)
	if err := s.store.Listings.Create(ctx, l); err != nil {
		return nil, service.Wrap(err, "Listing", "create")
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.ListingView, error) {
	l, err := s.store.Listings.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Listing", "get")
	}
	views, err := s.enrich(ctx, []*model.Listing{l})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.ListingFilter) ([]*model.ListingView, error) {
	listings, err := s.store.Listings.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return s.enrich(ctx, listings)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateListingRequest) (*model.Listing, error) {
	l, err := s.store.Listings.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Listing", "get")
	}
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = req.Description
	}
	if req.RentAmount != nil {
		l.RentAmount = *req.RentAmount
	}
	if req.Deposit != nil {
		l.Deposit = *req.Deposit
	}
	if req.AvailableAt != nil {
		l.AvailableAt = req.AvailableAt
	}
	if req.Amenities != nil {
		l.Amenities = req.Amenities
	}
	if req.ImageIDs != nil {
		l.ImageIDs = req.ImageIDs
	}
	if req.PetsAllowed != nil {
		l.PetsAllowed = *req.PetsAllowed
	}
	if req.ContactEmail != nil {
		l.ContactEmail = req.ContactEmail
	}
	l.Stamp(s.clock())
	if err := s.store.Listings.Update(ctx, l); err != nil {
		return nil, service.Wrap(err, "Listing", "update")
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return service.Wrap(s.store.Listings.Delete(ctx, orgID, id), "Listing", "delete")
}

func (s *Service) Publish(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return s.transition(ctx, orgID, id, model.ListingStatusActive, func(l *model.Listing, now time.Time) {
		if l.PublishedAt == nil {
			l.PublishedAt = &now
		}
	})
}

func (s *Service) Pause(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return s.transition(ctx, orgID, id, model.ListingStatusPaused, nil)
}

func (s *Service) MarkRented(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return s.transition(ctx, orgID, id, model.ListingStatusRented, nil)
}

func (s *Service) Expire(ctx context.Context, orgID, id uuid.UUID) (*model.Listing, error) {
	return s.transition(ctx, orgID, id, model.ListingStatusExpired, nil)
}

func (s *Service) transition(ctx context.Context, orgID, id uuid.UUID, to model.ListingStatus, apply func(*model.Listing, time.Time)) (*model.Listing, error) {
	l, err := s.store.Listings.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Listing", "get")
	}
	if err := model.ListingLifecycle.Transition(l.Status, to); err != nil {
		return nil, err
	}
	now := s.clock()
	l.Status = to
	if apply != nil {
		apply(l, now)
	}
	l.Stamp(now)
	if err := s.store.Listings.Update(ctx, l); err != nil {
		return nil, service.Wrap(err, "Listing", "update")
	}
	s.log.Debug("listing transition", "listing_id", id.String(), "status", string(to))
	return l, nil
}

// GetBySlug is the anonymous lookup. A missing slug yields nil, nil.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.ListingView, error) {
	l, err := s.store.Listings.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	views, err := s.enrich(ctx, []*model.Listing{l})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListPublic searches active listings across every organization.
func (s *Service) ListPublic(ctx context.Context, filter model.MarketplaceFilter) ([]*model.ListingView, error) {
	active, err := s.store.Listings.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active listings: %w", err)
	}
	matched := make([]*model.Listing, 0, len(active))
	for _, l := range active {
		if filter.Match(l) {
			matched = append(matched, l)
		}
	}
	return s.enrich(ctx, matched)
}

// enrich attaches units and properties with one batched read per
// organization present in listings.
func (s *Service) enrich(ctx context.Context, listings []*model.Listing) ([]*model.ListingView, error) {
	views := make([]*model.ListingView, 0, len(listings))
	byOrg := make(map[uuid.UUID][]*model.Listing)
	for _, l := range listings {
		byOrg[l.OrganizationID] = append(byOrg[l.OrganizationID], l)
	}

	units := make(map[uuid.UUID]*model.Unit)
	properties := make(map[uuid.UUID]*model.Property)
	for orgID, group := range byOrg {
		us, err := s.store.Units.GetMany(ctx, orgID,
			service.CollectIDs(group, func(l *model.Listing) *uuid.UUID { return &l.UnitID }))
		if err != nil {
			return nil, fmt.Errorf("failed to get units: %w", err)
		}
		for id, u := range service.Index(us) {
			units[id] = u
		}
		ps, err := s.store.Properties.GetMany(ctx, orgID,
			service.CollectIDs(group, func(l *model.Listing) *uuid.UUID { return &l.PropertyID }))
		if err != nil {
			return nil, fmt.Errorf("failed to get properties: %w", err)
		}
		for id, p := range service.Index(ps) {
			properties[id] = p
		}
	}

	for _, l := range listings {
		views = append(views, &model.ListingView{
			Listing:  l,
			Unit:     units[l.UnitID],
			Property: properties[l.PropertyID],
		})
	}
	return views, nil
}
