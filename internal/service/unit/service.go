package unit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	"github.com/jwalitptl/property-api/internal/service/property"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

type UnitServicer interface {
	Create(ctx context.Context, orgID uuid.UUID, req *model.CreateUnitRequest) (*model.Unit, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*model.UnitView, error)
	List(ctx context.Context, orgID uuid.UUID, filter model.UnitFilter) ([]*model.UnitView, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateUnitRequest) (*model.Unit, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type Service struct {
	store  *repository.Store
	limits property.LimitChecker
	clock  service.Clock
}

func NewService(store *repository.Store, limits property.LimitChecker) *Service {
	return &Service{store: store, limits: limits, clock: service.SystemClock}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateUnitRequest) (*model.Unit, error) {
	propertyID, err := service.ParseID(req.PropertyID, "property_id")
	if err != nil {
		return nil, err
	}

	var unit *model.Unit
	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Properties.Get(ctx, orgID, propertyID); err != nil {
			return service.Wrap(err, "Property", "get")
		}
		if err := s.limits.CheckLimit(ctx, orgID, model.ResourceUnits, 1); err != nil {
			return err
		}
		unit = property.NewUnit(orgID, propertyID, req.UnitInput)
		unit.Stamp(s.clock())
		if err := s.store.Units.Create(ctx, unit); err != nil {
			return fmt.Errorf("failed to create unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.UnitView, error) {
	unit, err := s.store.Units.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Unit", "get")
	}
	view := &model.UnitView{Unit: unit}
	if p, err := s.store.Properties.Get(ctx, orgID, unit.PropertyID); err == nil {
		view.Property = p
	}
	return view, nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter model.UnitFilter) ([]*model.UnitView, error) {
	units, err := s.store.Units.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	views := make([]*model.UnitView, 0, len(units))
	if len(units) == 0 {
		return views, nil
	}

	ids := service.CollectIDs(units, func(u *model.Unit) *uuid.UUID { return &u.PropertyID })
	properties, err := s.store.Properties.GetMany(ctx, orgID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}
	byID := service.Index(properties)
	for _, u := range units {
		views = append(views, &model.UnitView{Unit: u, Property: byID[u.PropertyID]})
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateUnitRequest) (*model.Unit, error) {
	unit, err := s.store.Units.Get(ctx, orgID, id)
	if err != nil {
		return nil, service.Wrap(err, "Unit", "get")
	}
	if req.UnitNumber != nil {
		unit.UnitNumber = *req.UnitNumber
	}
	if req.Bedrooms != nil {
		unit.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		unit.Bathrooms = *req.Bathrooms
	}
	if req.SquareFeet != nil {
		unit.SquareFeet = req.SquareFeet
	}
	if req.RentAmount != nil {
		unit.RentAmount = *req.RentAmount
	}
	if req.Description != nil {
		unit.Description = req.Description
	}
	unit.Stamp(s.clock())
	if err := s.store.Units.Update(ctx, unit); err != nil {
		return nil, service.Wrap(err, "Unit", "update")
	}
	return unit, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		unit, err := s.store.Units.Get(ctx, orgID, id)
		if err != nil {
			return service.Wrap(err, "Unit", "get")
		}
		if unit.Status == model.UnitStatusOccupied {
			return apperrors.Conflict("unit is occupied; terminate its lease first")
		}
		return service.Wrap(s.store.Units.Delete(ctx, orgID, id), "Unit", "delete")
	})
}
