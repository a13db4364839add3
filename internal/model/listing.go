package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type ListingStatus string

const (
	ListingStatusDraft   ListingStatus = "draft"
	ListingStatusActive  ListingStatus = "active"
	ListingStatusPaused  ListingStatus = "paused"
	ListingStatusRented  ListingStatus = "rented"
	ListingStatusExpired ListingStatus = "expired"
)

var ListingLifecycle = fsm.New("listing", map[ListingStatus][]ListingStatus{
	ListingStatusDraft:   {ListingStatusActive},
	ListingStatusActive:  {ListingStatusPaused, ListingStatusRented, ListingStatusExpired},
	ListingStatusPaused:  {ListingStatusActive, ListingStatusRented, ListingStatusExpired},
	ListingStatusRented:  {ListingStatusActive},
	ListingStatusExpired: {ListingStatusActive},
})

// Listing advertises a unit on the public marketplace.
type Listing struct {
	Base
	OrgScope
	UnitID       uuid.UUID      `json:"unit_id" db:"unit_id"`
	PropertyID   uuid.UUID      `json:"property_id" db:"property_id"`
	Title        string         `json:"title" db:"title"`
	Slug         string         `json:"slug" db:"slug"`
	Description  *string        `json:"description,omitempty" db:"description"`
	RentAmount   int64          `json:"rent_amount" db:"rent_amount"`
	Deposit      int64          `json:"deposit" db:"deposit"`
	Bedrooms     int            `json:"bedrooms" db:"bedrooms"`
	Bathrooms    float64        `json:"bathrooms" db:"bathrooms"`
	City         string         `json:"city" db:"city"`
	AvailableAt  *time.Time     `json:"available_at,omitempty" db:"available_at"`
	Amenities    pq.StringArray `json:"amenities" db:"amenities"`
	ImageIDs     pq.StringArray `json:"image_ids" db:"image_ids"`
	PetsAllowed  bool           `json:"pets_allowed" db:"pets_allowed"`
	Status       ListingStatus  `json:"status" db:"status"`
	PublishedAt  *time.Time     `json:"published_at,omitempty" db:"published_at"`
	ContactEmail *string        `json:"contact_email,omitempty" db:"contact_email"`
}

type ListingFilter struct {
	Status     ListingStatus `form:"status"`
	PropertyID *uuid.UUID    `form:"-"`
}

// MarketplaceFilter narrows the public listing search.
type MarketplaceFilter struct {
	City     string `form:"city"`
	MinRent  *int64 `form:"min_rent"`
	MaxRent  *int64 `form:"max_rent"`
	Bedrooms *int   `form:"bedrooms"`
}

// Match applies the filter to one listing.
func (f MarketplaceFilter) Match(l *Listing) bool {
	if f.City != "" && !strings.EqualFold(f.City, l.City) {
		return false
	}
	if f.MinRent != nil && l.RentAmount < *f.MinRent {
		return false
	}
	if f.MaxRent != nil && l.RentAmount > *f.MaxRent {
		return false
	}
	if f.Bedrooms != nil && l.Bedrooms < *f.Bedrooms {
		return false
	}
	return true
}

type ListingView struct {
	*Listing
	Unit     *Unit     `json:"unit,omitempty"`
	Property *Property `json:"property,omitempty"`
}

type CreateListingRequest struct {
	UnitID       string     `json:"unit_id" binding:"required,uuid"`
	Title        string     `json:"title" binding:"required,max=200"`
	Description  *string    `json:"description"`
	RentAmount   *int64     `json:"rent_amount" binding:"omitempty,cents"`
	Deposit      int64      `json:"deposit" binding:"cents"`
	AvailableAt  *time.Time `json:"available_at"`
	Amenities    []string   `json:"amenities"`
	ImageIDs     []string   `json:"image_ids"`
	PetsAllowed  bool       `json:"pets_allowed"`
	ContactEmail *string    `json:"contact_email" binding:"omitempty,email"`
}

type UpdateListingRequest struct {
	Title        *string    `json:"title" binding:"omitempty,max=200"`
	Description  *string    `json:"description"`
	RentAmount   *int64     `json:"rent_amount" binding:"omitempty,cents"`
	Deposit      *int64     `json:"deposit" binding:"omitempty,cents"`
	AvailableAt  *time.Time `json:"available_at"`
	Amenities    []string   `json:"amenities"`
	ImageIDs     []string   `json:"image_ids"`
	PetsAllowed  *bool      `json:"pets_allowed"`
	ContactEmail *string    `json:"contact_email" binding:"omitempty,email"`
}
