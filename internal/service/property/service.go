package property

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type PropertyServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreatePropertyRequest) (*model.PropertyView, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.PropertyView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.PropertyFilter) ([]*model.PropertyView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdatePropertyRequest) (*model.Property, error)
	Archive(ctx context.Context, orgID, id uuid.UUID) (*model.Property, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type LimitChecker interface {
	CheckLimit(ctx context.Context, orgID uuid.UUID, resource model.LimitedResource, adding int) error
}

type Service struct {
	store  *repository.Store
	limits LimitChecker
	clock  service.Clock
	log    *logger.Logger
}

func NewService(store *repository.Store, limits LimitChecker, log *logger.Logger) *Service {
	return &Service{store: store, limits: limits, clock: service.SystemClock, log: log}
}

// NewUnit builds a vacant unit from input. Shared with the unit service.
func NewUnit(orgID, propertyID uuid.UUID, in model.UnitInput) *model.Unit {
	return &model.Unit{
		OrgScope:    model.OrgScope{OrganizationID: orgID},
		PropertyID:  propertyID,
		UnitNumber:  in.UnitNumber,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		SquareFeet:  in.SquareFeet,
		RentAmount:  in.RentAmount,
		Status:      model.UnitStatusVacant,
		Description: in.Description,
	}
}

// Create inserts the property and its initial units in one transaction.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreatePropertyRequest) (*model.PropertyView, error) {
	property := &model.Property{
		OrgScope:    model.OrgScope{OrganizationID: orgID},
		Name:        req.Name,
		Type:        req.Type,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Description: req.Description,
		ImageIDs:    req.ImageIDs,
		Status:      model.PropertyStatusActive,
	}
	if property.ImageIDs == nil {
		property.ImageIDs = []string{}
	}

	units := make([]*model.Unit, 0, len(req.Units))
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.limits.CheckLimit(ctx, orgID, model.ResourceProperties, 1); err != nil {
			return err
		}
		if len(req.Units) > 0 {
			if err := s.limits.CheckLimit(ctx, orgID, model.ResourceUnits, len(req.Units)); err != nil {
				return err
			}
		}

		now := s.clock()
		property.Stamp(now)
		if err := s.store.Properties.Create(ctx, property); err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}
		for _, in := range req.Units {
			unit := NewUnit(orgID, property.ID, in)
			unit.Stamp(now)
			if err := s.store.Units.Create(ctx, unit); err != nil {
				return fmt.Errorf("failed to create unit %s: %w", in.UnitNumber, err)
			}
			units = append(units, unit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("property created", "property_id", property.ID.String(), "units", len(units))
	return &model.PropertyView{Property: property, Units: units, Stats: model.ComputePropertyStats(units)}, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.PropertyView, error) {
	property, err := s.store.Properties.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Property", "get")
	}
	units, err := s.store.Units.ListByProperties(ctx, orgID, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return &model.PropertyView{Property: property, Units: units, Stats: model.ComputePropertyStats(units)}, nil
}

// List returns properties with their units, fetched in one batched query.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.PropertyFilter) ([]*model.PropertyView, error) {
	properties, err := s.store.Properties.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	views := make([]*model.PropertyView, 0, len(properties))
	if len(properties) == 0 {
		return views, nil
	}

	ids := service.CollectIDs(properties, func(p *model.Property) *uuid.UUID { return &p.ID })
	units, err := s.store.Units.ListByProperties(ctx, orgID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	byProperty := make(map[uuid.UUID][]*model.Unit, len(properties))
	for _, u := range units {
		byProperty[u.PropertyID] = append(byProperty[u.PropertyID], u)
	}

	for _, p := range properties {
		propertyUnits := byProperty[p.ID]
		if propertyUnits == nil {
			propertyUnits = []*model.Unit{}
		}
		views = append(views, &model.PropertyView{
			Property: p,
			Units:    propertyUnits,
			Stats:    model.ComputePropertyStats(propertyUnits),
		})
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdatePropertyRequest) (*model.Property, error) {
	property, err := s.store.Properties.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Property", "get")
	}
	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.Street != nil {
		property.Street = *req.Street
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.PostalCode != nil {
		property.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.Description != nil {
		property.Description = req.Description
	}
	if req.ImageIDs != nil {
		property.ImageIDs = req.ImageIDs
	}
	property.Stamp(s.clock())

	if err := s.store.Properties.Update(ctx, property); err != nil {
		return nil, service.Wrap(err, "Property", "update")
	}
	return property, nil
}

func (s *Service) Archive(ctx context.Context, orgID, id uuid.UUID) (*model.Property, error) {
	property, err := s.store.Properties.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Property", "get")
	}
	property.Status = model.PropertyStatusArchived
	property.Stamp(s.clock())
	if err := s.store.Properties.Update(ctx, property); err != nil {
		return nil, service.Wrap(err, "Property", "update")
	}
	return property, nil
}

// Delete removes a property and its units. Occupied units block it.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Properties.Get(ctx, orgID, id); err != nil {
			return service.Wrap(err, "Property", "get")
		}
		units, err := s.store.Units.ListByProperties(ctx, orgID, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("failed to list units: %w", err)
		}
		for _, u := range units {
			if u.Status == model.UnitStatusOccupied {
				return apperrors.Conflict(fmt.Sprintf("unit %s is occupied; terminate its lease first", u.UnitNumber))
			}
		}
		if err := s.store.Units.DeleteByProperty(ctx, orgID, id); err != nil {
			return fmt.Errorf("failed to delete units: %w", err)
		}
		if err := s.store.Properties.Delete(ctx, orgID, id); err != nil {
			return service.Wrap(err, "Property", "delete")
		}
		s.log.Info("property deleted", "property_id", id.String(), "units", len(units))
		return nil
	})
}
