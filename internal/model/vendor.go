package model

import (
	"github.com/lib/pq"
)

type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// Vendor is an outside contractor that can be assigned maintenance work.
type Vendor struct {
	Base
	OrgScope
	Name        string         `json:"name" db:"name"`
	CompanyName *string        `json:"company_name,omitempty" db:"company_name"`
	Email       *string        `json:"email,omitempty" db:"email"`
	Phone       *string        `json:"phone,omitempty" db:"phone"`
	Categories  pq.StringArray `json:"categories" db:"categories"`
	HourlyRate  *int64         `json:"hourly_rate,omitempty" db:"hourly_rate"`
	Rating      *float64       `json:"rating,omitempty" db:"rating"`
	Notes       *string        `json:"notes,omitempty" db:"notes"`
	Status      VendorStatus   `json:"status" db:"status"`
}

func (v *Vendor) HasCategory(category string) bool {
	for _, c := range v.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type VendorFilter struct {
	Status   VendorStatus `form:"status"`
	Category string       `form:"category"`
	Search   string       `form:"search"`
}

type CreateVendorRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	CompanyName *string  `json:"company_name" binding:"omitempty,max=200"`
	Email       *string  `json:"email" binding:"omitempty,email"`
	Phone       *string  `json:"phone" binding:"omitempty,max=32"`
	Categories  []string `json:"categories"`
	HourlyRate  *int64   `json:"hourly_rate" binding:"omitempty,cents"`
	Rating      *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes       *string  `json:"notes"`
}

type UpdateVendorRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	CompanyName *string  `json:"company_name" binding:"omitempty,max=200"`
	Email       *string  `json:"email" binding:"omitempty,email"`
	Phone       *string  `json:"phone" binding:"omitempty,max=32"`
	Categories  []string `json:"categories"`
	HourlyRate  *int64   `json:"hourly_rate" binding:"omitempty,cents"`
	Rating      *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes       *string  `json:"notes"`
}

type SetVendorStatusRequest struct {
	Status VendorStatus `json:"status" binding:"required,oneof=active inactive"`
}
