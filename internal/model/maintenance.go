package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type MaintenanceStatus string

const (
	MaintenanceStatusOpen       MaintenanceStatus = "open"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusOnHold     MaintenanceStatus = "on_hold"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

var MaintenanceLifecycle = fsm.New("maintenance request", map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceStatusOpen:       {MaintenanceStatusInProgress, MaintenanceStatusOnHold, MaintenanceStatusCancelled},
	MaintenanceStatusInProgress: {MaintenanceStatusOnHold, MaintenanceStatusCompleted, MaintenanceStatusCancelled},
	MaintenanceStatusOnHold:     {MaintenanceStatusInProgress, MaintenanceStatusCancelled},
})

func (s MaintenanceStatus) Open() bool {
	return s == MaintenanceStatusOpen || s == MaintenanceStatusInProgress || s == MaintenanceStatusOnHold
}

type MaintenancePriority string

const (
	PriorityLow       MaintenancePriority = "low"
	PriorityMedium    MaintenancePriority = "medium"
	PriorityHigh      MaintenancePriority = "high"
	PriorityEmergency MaintenancePriority = "emergency"
)

type MaintenanceRequest struct {
	Base
	OrgScope
	PropertyID    uuid.UUID           `json:"property_id" db:"property_id"`
	UnitID        *uuid.UUID          `json:"unit_id,omitempty" db:"unit_id"`
	TenantID      *uuid.UUID          `json:"tenant_id,omitempty" db:"tenant_id"`
	VendorID      *uuid.UUID          `json:"vendor_id,omitempty" db:"vendor_id"`
	Title         string              `json:"title" db:"title"`
	Description   string              `json:"description" db:"description"`
	Category      string              `json:"category" db:"category"`
	Priority      MaintenancePriority `json:"priority" db:"priority"`
	Status        MaintenanceStatus   `json:"status" db:"status"`
	EstimatedCost *int64              `json:"estimated_cost,omitempty" db:"estimated_cost"`
	ActualCost    *int64              `json:"actual_cost,omitempty" db:"actual_cost"`
	ScheduledAt   *time.Time          `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty" db:"completed_at"`
	ImageIDs      pq.StringArray      `json:"image_ids" db:"image_ids"`
}

type MaintenanceFilter struct {
	Status     MaintenanceStatus   `form:"status"`
	Priority   MaintenancePriority `form:"priority"`
	PropertyID *uuid.UUID          `form:"-"`
}

type MaintenanceView struct {
	*MaintenanceRequest
	Property *Property `json:"property,omitempty"`
	Unit     *Unit     `json:"unit,omitempty"`
	Tenant   *Tenant   `json:"tenant,omitempty"`
	Vendor   *Vendor   `json:"vendor,omitempty"`
}

type CreateMaintenanceRequest struct {
	PropertyID    string              `json:"property_id" binding:"required,uuid"`
	UnitID        *string             `json:"unit_id" binding:"omitempty,uuid"`
	TenantID      *string             `json:"tenant_id" binding:"omitempty,uuid"`
	Title         string              `json:"title" binding:"required,max=200"`
	Description   string              `json:"description" binding:"max=4000"`
	Category      string              `json:"category" binding:"max=64"`
	Priority      MaintenancePriority `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	EstimatedCost *int64              `json:"estimated_cost" binding:"omitempty,cents"`
	ScheduledAt   *time.Time          `json:"scheduled_at"`
	ImageIDs      []string            `json:"image_ids"`
}

type UpdateMaintenanceRequest struct {
	Title         *string              `json:"title" binding:"omitempty,max=200"`
	Description   *string              `json:"description" binding:"omitempty,max=4000"`
	Category      *string              `json:"category" binding:"omitempty,max=64"`
	Priority      *MaintenancePriority `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	EstimatedCost *int64               `json:"estimated_cost" binding:"omitempty,cents"`
	ScheduledAt   *time.Time           `json:"scheduled_at"`
	ImageIDs      []string             `json:"image_ids"`
}

type AssignVendorRequest struct {
	VendorID string `json:"vendor_id" binding:"required,uuid"`
}

type CompleteMaintenanceRequest struct {
	ActualCost int64 `json:"actual_cost" binding:"cents"`
}
