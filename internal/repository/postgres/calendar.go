package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type calendarRepository struct {
	table[model.CalendarEvent]
}

func NewCalendarRepository(base BaseRepository) repository.CalendarRepository {
	return &calendarRepository{newTable[model.CalendarEvent](base, "calendar_events", true,
		"id", "organization_id", "title", "description", "type", "start_time", "end_time",
		"all_day", "property_id", "unit_id", "tenant_id", "maintenance_id", "status",
		"created_at", "updated_at")}
}

func (r *calendarRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	return r.insert(ctx, event)
}

func (r *calendarRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error) {
	return r.get(ctx, orgID, id)
}

func (r *calendarRepository) Update(ctx context.Context, event *model.CalendarEvent) error {
	return r.update(ctx, event)
}

func (r *calendarRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.delete(ctx, orgID, id)
}

func (r *calendarRepository) List(ctx context.Context, orgID uuid.UUID, filter model.CalendarFilter) ([]*model.CalendarEvent, error) {
	w := orgWhere(orgID)
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	if filter.PropertyID != nil {
		w.add("property_id = $%d", *filter.PropertyID)
	}
	if filter.From != nil {
		w.add("end_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("start_time <= $%d", *filter.To)
	}
	return r.list(ctx, w, "start_time ASC")
}
