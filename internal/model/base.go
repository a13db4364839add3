package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Base) Key() uuid.UUID     { return b.ID }
func (b *Base) Created() time.Time { return b.CreatedAt }

// Stamp assigns an id to new records and refreshes the timestamps.
func (b *Base) Stamp(now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// OrgScope is embedded by every entity that belongs to an organization.
type OrgScope struct {
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
}

func (s *OrgScope) Org() uuid.UUID { return s.OrganizationID }

// DateRange is an optional inclusive time window used by list filters.
type DateRange struct {
	From *time.Time `json:"from,omitempty" form:"from" time_format:"2006-01-02"`
	To   *time.Time `json:"to,omitempty" form:"to" time_format:"2006-01-02"`
}

// Contains reports whether t falls inside the window. Open ends match.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// MonthBounds returns the first instant of t's month and of the next month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
