package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

var CalendarLifecycle = fsm.New("calendar event", map[EventStatus][]EventStatus{
	EventStatusScheduled: {EventStatusCompleted, EventStatusCancelled},
})

type EventType string

const (
	EventTypeShowing      EventType = "showing"
	EventTypeInspection   EventType = "inspection"
	EventTypeMaintenance  EventType = "maintenance"
	EventTypeLeaseSigning EventType = "lease_signing"
	EventTypeMoveIn       EventType = "move_in"
	EventTypeMoveOut      EventType = "move_out"
	EventTypeOther        EventType = "other"
)

type CalendarEvent struct {
	Base
	OrgScope
	Title         string      `json:"title" db:"title"`
	Description   *string     `json:"description,omitempty" db:"description"`
	Type          EventType   `json:"type" db:"type"`
	StartTime     time.Time   `json:"start_time" db:"start_time"`
	EndTime       time.Time   `json:"end_time" db:"end_time"`
	AllDay        bool        `json:"all_day" db:"all_day"`
	PropertyID    *uuid.UUID  `json:"property_id,omitempty" db:"property_id"`
	UnitID        *uuid.UUID  `json:"unit_id,omitempty" db:"unit_id"`
	TenantID      *uuid.UUID  `json:"tenant_id,omitempty" db:"tenant_id"`
	MaintenanceID *uuid.UUID  `json:"maintenance_id,omitempty" db:"maintenance_id"`
	Status        EventStatus `json:"status" db:"status"`
}

// Overlaps reports whether the event intersects the window.
func (e *CalendarEvent) Overlaps(r DateRange) bool {
	if r.From != nil && e.EndTime.Before(*r.From) {
		return false
	}
	if r.To != nil && e.StartTime.After(*r.To) {
		return false
	}
	return true
}

type CalendarFilter struct {
	Type       EventType  `form:"type"`
	PropertyID *uuid.UUID `form:"-"`
	DateRange
}

type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required,max=200"`
	Description   *string   `json:"description"`
	Type          EventType `json:"type" binding:"required,oneof=showing inspection maintenance lease_signing move_in move_out other"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	AllDay        bool      `json:"all_day"`
	PropertyID    *string   `json:"property_id" binding:"omitempty,uuid"`
	UnitID        *string   `json:"unit_id" binding:"omitempty,uuid"`
	TenantID      *string   `json:"tenant_id" binding:"omitempty,uuid"`
	MaintenanceID *string   `json:"maintenance_id" binding:"omitempty,uuid"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Type        *EventType `json:"type" binding:"omitempty,oneof=showing inspection maintenance lease_signing move_in move_out other"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	AllDay      *bool      `json:"all_day"`
}
