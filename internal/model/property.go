package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeOther      PropertyType = "other"
)

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusArchived PropertyStatus = "archived"
)

// Property is a physical asset holding one or more units.
type Property struct {
	Base
	OrgScope
	Name        string         `json:"name" db:"name"`
	Type        PropertyType   `json:"type" db:"type"`
	Street      string         `json:"street" db:"street"`
	City        string         `json:"city" db:"city"`
	State       string         `json:"state" db:"state"`
	PostalCode  string         `json:"postal_code" db:"postal_code"`
	Country     string         `json:"country" db:"country"`
	Description *string        `json:"description,omitempty" db:"description"`
	ImageIDs    pq.StringArray `json:"image_ids" db:"image_ids"`
	Status      PropertyStatus `json:"status" db:"status"`
}

type PropertyFilter struct {
	Search string         `form:"search"`
	Type   PropertyType   `form:"type"`
	Status PropertyStatus `form:"status"`
}

// PropertyStats is derived from the property's units.
type PropertyStats struct {
	UnitCount     int     `json:"unit_count"`
	OccupiedUnits int     `json:"occupied_units"`
	VacantUnits   int     `json:"vacant_units"`
	OccupancyRate float64 `json:"occupancy_rate"`
	MonthlyRent   int64   `json:"monthly_rent"`
}

// PropertyView is a property enriched with its units.
type PropertyView struct {
	*Property
	Units []*Unit        `json:"units"`
	Stats *PropertyStats `json:"stats,omitempty"`
}

type UnitStatus string

const (
	UnitStatusVacant   UnitStatus = "vacant"
	UnitStatusOccupied UnitStatus = "occupied"
)

// Unit is a rentable sub-division of a property.
type Unit struct {
	Base
	OrgScope
	PropertyID  uuid.UUID  `json:"property_id" db:"property_id"`
	UnitNumber  string     `json:"unit_number" db:"unit_number"`
	Bedrooms    int        `json:"bedrooms" db:"bedrooms"`
	Bathrooms   float64    `json:"bathrooms" db:"bathrooms"`
	SquareFeet  *int       `json:"square_feet,omitempty" db:"square_feet"`
	RentAmount  int64      `json:"rent_amount" db:"rent_amount"`
	Status      UnitStatus `json:"status" db:"status"`
	Description *string    `json:"description,omitempty" db:"description"`
}

type UnitFilter struct {
	PropertyID *uuid.UUID `form:"-"`
	Status     UnitStatus `form:"status"`
}

// UnitView is a unit enriched with its property.
type UnitView struct {
	*Unit
	Property *Property `json:"property,omitempty"`
}

type UnitInput struct {
	UnitNumber  string  `json:"unit_number" binding:"required,max=32"`
	Bedrooms    int     `json:"bedrooms" binding:"gte=0"`
	Bathrooms   float64 `json:"bathrooms" binding:"gte=0"`
	SquareFeet  *int    `json:"square_feet" binding:"omitempty,gt=0"`
	RentAmount  int64   `json:"rent_amount" binding:"cents"`
	Description *string `json:"description"`
}

type CreatePropertyRequest struct {
	Name        string       `json:"name" binding:"required,max=200"`
	Type        PropertyType `json:"type" binding:"required,oneof=apartment house condo townhouse commercial other"`
	Street      string       `json:"street" binding:"required"`
	City        string       `json:"city" binding:"required"`
	State       string       `json:"state"`
	PostalCode  string       `json:"postal_code"`
	Country     string       `json:"country"`
	Description *string      `json:"description"`
	ImageIDs    []string     `json:"image_ids"`
	Units       []UnitInput  `json:"units" binding:"omitempty,dive"`
}

type UpdatePropertyRequest struct {
	Name        *string       `json:"name" binding:"omitempty,max=200"`
	Type        *PropertyType `json:"type" binding:"omitempty,oneof=apartment house condo townhouse commercial other"`
	Street      *string       `json:"street"`
	City        *string       `json:"city"`
	State       *string       `json:"state"`
	PostalCode  *string       `json:"postal_code"`
	Country     *string       `json:"country"`
	Description *string       `json:"description"`
	ImageIDs    []string      `json:"image_ids"`
}

type CreateUnitRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	UnitInput
}

type UpdateUnitRequest struct {
	UnitNumber  *string  `json:"unit_number" binding:"omitempty,max=32"`
	Bedrooms    *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareFeet  *int     `json:"square_feet" binding:"omitempty,gt=0"`
	RentAmount  *int64   `json:"rent_amount" binding:"omitempty,cents"`
	Description *string  `json:"description"`
}

// ComputePropertyStats summarises units with a linear scan.
func ComputePropertyStats(units []*Unit) *PropertyStats {
	stats := &PropertyStats{UnitCount: len(units)}
	for _, u := range units {
		if u.Status == UnitStatusOccupied {
			stats.OccupiedUnits++
			stats.MonthlyRent += u.RentAmount
		}
	}
	stats.VacantUnits = stats.UnitCount - stats.OccupiedUnits
	if stats.UnitCount > 0 {
		stats.OccupancyRate = float64(stats.OccupiedUnits) / float64(stats.UnitCount)
	}
	return stats
}

