package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
	"github.com/jwalitptl/property-api/internal/service"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

type SubscriptionServicer interface {
	Get(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error)
	Usage(ctx context.Context, orgID uuid.UUID) (model.Usage, error)
	CheckLimit(ctx context.Context, orgID uuid.UUID, resource model.LimitedResource, adding int) error
	HasFeature(ctx context.Context, orgID uuid.UUID, feature model.Feature) (bool, error)
	ChangePlan(ctx context.Context, orgID uuid.UUID, req *model.ChangePlanRequest) (*model.SubscriptionView, error)
	Activate(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error)
	Cancel(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error)
	Reactivate(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error)
}

type Service struct {
	store *repository.Store
	clock service.Clock
	log   *logger.Logger
}

func NewService(store *repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, clock: service.SystemClock, log: log}
}

// StartTrial creates the starter trial every new organization gets.
func (s *Service) StartTrial(ctx context.Context, orgID uuid.UUID, trialDays int) (*model.Subscription, error) {
	now := s.clock()
	trialEnd := now.AddDate(0, 0, trialDays)
	sub := &model.Subscription{
		OrgScope:     model.OrgScope{OrganizationID: orgID},
		Plan:         model.PlanStarter,
		BillingCycle: model.BillingMonthly,
		Status:       model.SubscriptionStatusTrialing,
		TrialEndsAt:  &trialEnd,
	}
	sub.Stamp(now)
	if err := s.store.Subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("organization already has a subscription")
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

func (s *Service) load(ctx context.Context, orgID uuid.UUID) (*model.Subscription, model.Plan, error) {
	sub, err := s.store.Subscriptions.GetByOrganization(ctx, orgID)
	if err != nil {
		return nil, model.Plan{}, service.Wrap(err, "Subscription", "get")
	}
	plan, ok := model.LookupPlan(sub.Plan)
	if !ok {
		return nil, model.Plan{}, fmt.Errorf("subscription references unknown plan %q", sub.Plan)
	}
	return sub, plan, nil
}

func (s *Service) Get(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error) {
	sub, plan, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}
	usage, err := s.Usage(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &model.SubscriptionView{Subscription: sub, Details: plan, Usage: usage}, nil
}

func (s *Service) Usage(ctx context.Context, orgID uuid.UUID) (model.Usage, error) {
	properties, err := s.store.Properties.List(ctx, orgID, model.PropertyFilter{})
	if err != nil {
		return model.Usage{}, fmt.Errorf("failed to count properties: %w", err)
	}
	units, err := s.store.Units.List(ctx, orgID, model.UnitFilter{})
	if err != nil {
		return model.Usage{}, fmt.Errorf("failed to count units: %w", err)
	}
	members, err := s.store.Members.ListByOrganization(ctx, orgID)
	if err != nil {
		return model.Usage{}, fmt.Errorf("failed to count members: %w", err)
	}
	return model.Usage{Properties: len(properties), Units: len(units), Members: len(members)}, nil
}

// CheckLimit returns LimitExceeded when adding more of resource would take
// the organization past its plan. Orgs without a subscription get starter
// limits.
func (s *Service) CheckLimit(ctx context.Context, orgID uuid.UUID, resource model.LimitedResource, adding int) error {
	plan, _ := model.LookupPlan(model.PlanStarter)
	if _, p, err := s.load(ctx, orgID); err == nil {
		plan = p
	} else if !errors.Is(err, apperrors.NotFoundErr) {
		return err
	}

	usage, err := s.Usage(ctx, orgID)
	if err != nil {
		return err
	}
	if !usage.Fits(plan.Limits, resource, adding) {
		return apperrors.LimitExceeded(fmt.Sprintf("the %s plan does not allow more %s", plan.Name, resource))
	}
	return nil
}

func (s *Service) HasFeature(ctx context.Context, orgID uuid.UUID, feature model.Feature) (bool, error) {
	sub, plan, err := s.load(ctx, orgID)
	if err != nil {
		return false, err
	}
	if sub.Status == model.SubscriptionStatusCancelled {
		return false, nil
	}
	return plan.HasFeature(feature), nil
}

func (s *Service) ChangePlan(ctx context.Context, orgID uuid.UUID, req *model.ChangePlanRequest) (*model.SubscriptionView, error) {
	plan, ok := model.LookupPlan(req.Plan)
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown plan %q", req.Plan), nil)
	}
	var view *model.SubscriptionView
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		sub, _, err := s.load(ctx, orgID)
		if err != nil {
			return err
		}
		usage, err := s.Usage(ctx, orgID)
		if err != nil {
			return err
		}
		if !usage.Within(plan.Limits) {
			return apperrors.Conflict(fmt.Sprintf("current usage exceeds the limits of the %s plan", plan.Name))
		}

		sub.Plan = plan.ID
		if req.BillingCycle != "" {
			sub.BillingCycle = req.BillingCycle
		}
		now := s.clock()
		if sub.Status == model.SubscriptionStatusActive {
			sub.StartPeriod(now)
		}
		sub.Stamp(now)
		if err := s.store.Subscriptions.Update(ctx, sub); err != nil {
			return service.Wrap(err, "Subscription", "update")
		}
		view = &model.SubscriptionView{Subscription: sub, Details: plan, Usage: usage}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("plan changed", "organization_id", orgID.String(), "plan", string(plan.ID))
	return view, nil
}

func (s *Service) transition(ctx context.Context, orgID uuid.UUID, to model.SubscriptionStatus, apply func(*model.Subscription, time.Time)) (*model.SubscriptionView, error) {
	sub, _, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := model.SubscriptionLifecycle.Transition(sub.Status, to); err != nil {
		return nil, err
	}
	now := s.clock()
	sub.Status = to
	apply(sub, now)
	sub.Stamp(now)
	if err := s.store.Subscriptions.Update(ctx, sub); err != nil {
		return nil, service.Wrap(err, "Subscription", "update")
	}
	s.log.Debug("subscription transition", "organization_id", orgID.String(), "status", string(to))
	return s.Get(ctx, orgID)
}

func (s *Service) Activate(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error) {
	return s.transition(ctx, orgID, model.SubscriptionStatusActive, func(sub *model.Subscription, now time.Time) {
		sub.StartPeriod(now)
	})
}

func (s *Service) Cancel(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error) {
	return s.transition(ctx, orgID, model.SubscriptionStatusCancelled, func(sub *model.Subscription, now time.Time) {
		sub.CancelledAt = &now
	})
}

func (s *Service) Reactivate(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error) {
	return s.transition(ctx, orgID, model.SubscriptionStatusActive, func(sub *model.Subscription, now time.Time) {
		sub.CancelledAt = nil
		sub.StartPeriod(now)
	})
}
