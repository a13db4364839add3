package model

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type TenantStatus string

const (
	TenantStatusApplicant TenantStatus = "applicant"
	TenantStatusCurrent   TenantStatus = "current"
	TenantStatusPast      TenantStatus = "past"
	TenantStatusEvicted   TenantStatus = "evicted"
)

var TenantLifecycle = fsm.New("tenant", map[TenantStatus][]TenantStatus{
	TenantStatusApplicant: {TenantStatusCurrent, TenantStatusPast},
	TenantStatusCurrent:   {TenantStatusPast, TenantStatusEvicted},
	TenantStatusPast:      {TenantStatusCurrent},
})

type PortalStatus string

const (
	PortalStatusNone     PortalStatus = "none"
	PortalStatusInvited  PortalStatus = "invited"
	PortalStatusActive   PortalStatus = "active"
	PortalStatusDisabled PortalStatus = "disabled"
)

var PortalLifecycle = fsm.New("tenant portal", map[PortalStatus][]PortalStatus{
	PortalStatusNone:     {PortalStatusInvited},
	PortalStatusInvited:  {PortalStatusInvited, PortalStatusActive, PortalStatusDisabled},
	PortalStatusActive:   {PortalStatusDisabled},
	PortalStatusDisabled: {PortalStatusInvited},
})

// Tenant is a renter profile. CurrentBalance is a signed ledger figure in
// cents: positive means the tenant owes money.
type Tenant struct {
	Base
	OrgScope
	FirstName        string       `json:"first_name" db:"first_name"`
	LastName         string       `json:"last_name" db:"last_name"`
	Email            string       `json:"email" db:"email"`
	Phone            *string      `json:"phone,omitempty" db:"phone"`
	PropertyID       *uuid.UUID   `json:"property_id,omitempty" db:"property_id"`
	UnitID           *uuid.UUID   `json:"unit_id,omitempty" db:"unit_id"`
	LeaseID          *uuid.UUID   `json:"lease_id,omitempty" db:"lease_id"`
	UserID           *uuid.UUID   `json:"user_id,omitempty" db:"user_id"`
	CurrentBalance   int64        `json:"current_balance" db:"current_balance"`
	Status           TenantStatus `json:"status" db:"status"`
	PortalStatus     PortalStatus `json:"portal_status" db:"portal_status"`
	EmergencyContact *string      `json:"emergency_contact,omitempty" db:"emergency_contact"`
	Notes            *string      `json:"notes,omitempty" db:"notes"`
}

func (t *Tenant) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

type TenantFilter struct {
	Status     TenantStatus `form:"status"`
	PropertyID *uuid.UUID   `form:"-"`
	Search     string       `form:"search"`
}

// TenantView is a tenant enriched with where they live.
type TenantView struct {
	*Tenant
	Unit     *Unit     `json:"unit,omitempty"`
	Property *Property `json:"property,omitempty"`
}

type CreateTenantRequest struct {
	FirstName        string  `json:"first_name" binding:"required,max=100"`
	LastName         string  `json:"last_name" binding:"max=100"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            *string `json:"phone" binding:"omitempty,max=32"`
	Status           string  `json:"status" binding:"omitempty,oneof=applicant current"`
	EmergencyContact *string `json:"emergency_contact"`
	Notes            *string `json:"notes"`
}

type UpdateTenantRequest struct {
	FirstName        *string `json:"first_name" binding:"omitempty,max=100"`
	LastName         *string `json:"last_name" binding:"omitempty,max=100"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone" binding:"omitempty,max=32"`
	EmergencyContact *string `json:"emergency_contact"`
	Notes            *string `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
