package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type LeaseStatus string

const (
	LeaseStatusPending    LeaseStatus = "pending"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
)

var LeaseLifecycle = fsm.New("lease", map[LeaseStatus][]LeaseStatus{
	LeaseStatusPending: {LeaseStatusActive, LeaseStatusTerminated},
	LeaseStatusActive:  {LeaseStatusExpired, LeaseStatusTerminated},
})

// Lease binds a tenant to a unit for a term.
type Lease struct {
	Base
	OrgScope
	TenantID          uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	UnitID            uuid.UUID   `json:"unit_id" db:"unit_id"`
	PropertyID        uuid.UUID   `json:"property_id" db:"property_id"`
	StartDate         time.Time   `json:"start_date" db:"start_date"`
	EndDate           *time.Time  `json:"end_date,omitempty" db:"end_date"`
	RentAmount        int64       `json:"rent_amount" db:"rent_amount"`
	SecurityDeposit   int64       `json:"security_deposit" db:"security_deposit"`
	DueDay            int         `json:"due_day" db:"due_day"`
	Status            LeaseStatus `json:"status" db:"status"`
	TerminatedAt      *time.Time  `json:"terminated_at,omitempty" db:"terminated_at"`
	TerminationReason *string     `json:"termination_reason,omitempty" db:"termination_reason"`
}

type LeaseFilter struct {
	Status     LeaseStatus `form:"status"`
	TenantID   *uuid.UUID  `form:"-"`
	PropertyID *uuid.UUID  `form:"-"`
}

type LeaseView struct {
	*Lease
	Tenant   *Tenant   `json:"tenant,omitempty"`
	Unit     *Unit     `json:"unit,omitempty"`
	Property *Property `json:"property,omitempty"`
}

type CreateLeaseRequest struct {
	TenantID        string     `json:"tenant_id" binding:"required,uuid"`
	UnitID          string     `json:"unit_id" binding:"required,uuid"`
	StartDate       time.Time  `json:"start_date" binding:"required"`
	EndDate         *time.Time `json:"end_date" binding:"omitempty,gtfield=StartDate"`
	RentAmount      int64      `json:"rent_amount" binding:"required,cents"`
	SecurityDeposit int64      `json:"security_deposit" binding:"cents"`
	DueDay          int        `json:"due_day" binding:"omitempty,min=1,max=28"`
}

type UpdateLeaseRequest struct {
	EndDate    *time.Time `json:"end_date"`
	RentAmount *int64     `json:"rent_amount" binding:"omitempty,cents"`
	DueDay     *int       `json:"due_day" binding:"omitempty,min=1,max=28"`
}

type TerminateLeaseRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
