package calendar

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

type CalendarServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateEventRequest) (*model.CalendarEvent, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.CalendarFilter) ([]*model.CalendarEvent, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateEventRequest) (*model.CalendarEvent, error)
	Complete(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error)
	Cancel(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type Service struct {
	store *repository.Store
	clock service.Clock
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store, clock: service.SystemClock}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateEventRequest) (*model.CalendarEvent, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, apperrors.BadRequest("end_time must not be before start_time", nil)
	}
	e := &model.CalendarEvent{
		OrgScope:    model.OrgScope{OrganizationID: orgID},
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		AllDay:      req.AllDay,
		Status:      model.EventStatusScheduled,
	}

	var err error
	if e.PropertyID, err = service.ParseOptionalID(req.PropertyID, "property_id"); err != nil {
		return nil, err
	}
	if e.UnitID, err = service.ParseOptionalID(req.UnitID, "unit_id"); err != nil {
		return nil, err
	}
	if e.TenantID, err = service.ParseOptionalID(req.TenantID, "tenant_id"); err != nil {
		return nil, err
	}
	if e.MaintenanceID, err = service.ParseOptionalID(req.MaintenanceID, "maintenance_id"); err != nil {
		return nil, err
	}
	if e.PropertyID != nil {
		if _, err := s.store.Properties.Get(ctx, orgID, *e.PropertyID); err != nil {
			return nil, service.Wrap(err, "Property", "get")
		}
	}

	e.Stamp(s.clock())
	if err := s.store.Calendar.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error) {
	e, err := s.store.Calendar.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Event", "get")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.CalendarFilter) ([]*model.CalendarEvent, error) {
	events, err := s.store.Calendar.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateEventRequest) (*model.CalendarEvent, error) {
	e, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.StartTime != nil {
		e.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		e.EndTime = req.EndTime.UTC()
	}
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if e.EndTime.Before(e.StartTime) {
		return nil, apperrors.BadRequest("end_time must not be before start_time", nil)
	}
	e.Stamp(s.clock())
	if err := s.store.Calendar.Update(ctx, e); err != nil {
		return nil, service.Wrap(err, "Event", "update")
	}
	return e, nil
}

func (s *Service) Complete(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error) {
	return s.transition(ctx, orgID, id, model.EventStatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, orgID, id uuid.UUID) (*model.CalendarEvent, error) {
	return s.transition(ctx, orgID, id, model.EventStatusCancelled)
}

func (s *Service) transition(ctx context.Context, orgID, id uuid.UUID, to model.EventStatus) (*model.CalendarEvent, error) {
	e, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := model.CalendarLifecycle.Transition(e.Status, to); err != nil {
		return nil, err
	}
	e.Status = to
	e.Stamp(s.clock())
	if err := s.store.Calendar.Update(ctx, e); err != nil {
		return nil, service.Wrap(err, "Event", "update")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return service.Wrap(s.store.Calendar.Delete(ctx, orgID, id), "Event", "delete")
}
