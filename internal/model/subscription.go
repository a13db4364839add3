package model

import (
	"sort"
	"time"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type PlanID string

const (
	PlanStarter      PlanID = "starter"
	PlanGrowth       PlanID = "growth"
	PlanProfessional PlanID = "professional"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

type Feature string

const (
	FeatureBasicReporting      Feature = "basic_reporting"
	FeatureTenantPortal        Feature = "tenant_portal"
	FeatureOnlinePayments      Feature = "online_payments"
	FeatureListings            Feature = "listings"
	FeatureMaintenanceTracking Feature = "maintenance_tracking"
	FeatureAPIAccess           Feature = "api_access"
	FeatureCustomBranding      Feature = "custom_branding"
	FeaturePrioritySupport     Feature = "priority_support"
)

// Unlimited marks a plan limit with no ceiling.
const Unlimited = -1

type PlanLimits struct {
	Properties int `json:"properties"`
	Units      int `json:"units"`
	Members    int `json:"members"`
}

// allows reports whether current+adding stays within limit.
func allows(limit, current, adding int) bool {
	return limit == Unlimited || current+adding <= limit
}

type Plan struct {
	ID           PlanID     `json:"id"`
	Name         string     `json:"name"`
	MonthlyPrice int64      `json:"monthly_price"`
	YearlyPrice  int64      `json:"yearly_price"`
	Limits       PlanLimits `json:"limits"`
	Features     []Feature  `json:"features"`
}

func (p Plan) Price(cycle BillingCycle) int64 {
	if cycle == BillingYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

func (p Plan) HasFeature(f Feature) bool {
	for _, feature := range p.Features {
		if feature == f {
			return true
		}
	}
	return false
}

func newPlan(id PlanID, name string, monthly int64, limits PlanLimits, features ...Feature) Plan {
	return Plan{
		ID:           id,
		Name:         name,
		MonthlyPrice: monthly,
		YearlyPrice:  monthly * 10,
		Limits:       limits,
		Features:     features,
	}
}

var plans = map[PlanID]Plan{
	PlanStarter: newPlan(PlanStarter, "Starter", 2900,
		PlanLimits{Properties: 5, Units: 25, Members: 2},
		FeatureBasicReporting, FeatureTenantPortal),
	PlanGrowth: newPlan(PlanGrowth, "Growth", 7900,
		PlanLimits{Properties: 25, Units: 150, Members: 10},
		FeatureBasicReporting, FeatureTenantPortal, FeatureOnlinePayments, FeatureListings,
		FeatureMaintenanceTracking),
	PlanProfessional: newPlan(PlanProfessional, "Professional", 19900,
		PlanLimits{Properties: Unlimited, Units: Unlimited, Members: Unlimited},
		FeatureBasicReporting, FeatureTenantPortal, FeatureOnlinePayments, FeatureListings,
		FeatureMaintenanceTracking, FeatureAPIAccess, FeatureCustomBranding, FeaturePrioritySupport),
}

// LookupPlan returns the plan definition for id.
func LookupPlan(id PlanID) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Plans lists every plan, cheapest first.
func Plans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthlyPrice < out[j].MonthlyPrice })
	return out
}

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

var SubscriptionLifecycle = fsm.New("subscription", map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusTrialing:  {SubscriptionStatusActive, SubscriptionStatusCancelled},
	SubscriptionStatusActive:    {SubscriptionStatusCancelled},
	SubscriptionStatusCancelled: {SubscriptionStatusActive},
})

type Subscription struct {
	Base
	OrgScope
	Plan               PlanID             `json:"plan" db:"plan"`
	BillingCycle       BillingCycle       `json:"billing_cycle" db:"billing_cycle"`
	Status             SubscriptionStatus `json:"status" db:"status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	CurrentPeriodStart *time.Time         `json:"current_period_start,omitempty" db:"current_period_start"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty" db:"current_period_end"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// StartPeriod opens a new billing period beginning at now.
func (s *Subscription) StartPeriod(now time.Time) {
	end := now.AddDate(0, 1, 0)
	if s.BillingCycle == BillingYearly {
		end = now.AddDate(1, 0, 0)
	}
	s.CurrentPeriodStart = &now
	s.CurrentPeriodEnd = &end
}

type LimitedResource string

const (
	ResourceProperties LimitedResource = "properties"
	ResourceUnits      LimitedResource = "units"
	ResourceMembers    LimitedResource = "members"
)

type Usage struct {
	Properties int `json:"properties"`
	Units      int `json:"units"`
	Members    int `json:"members"`
}

// Fits reports whether usage plus adding of resource fits within limits.
func (u Usage) Fits(l PlanLimits, resource LimitedResource, adding int) bool {
	switch resource {
	case ResourceProperties:
		return allows(l.Properties, u.Properties, adding)
	case ResourceUnits:
		return allows(l.Units, u.Units, adding)
	case ResourceMembers:
		return allows(l.Members, u.Members, adding)
	}
	return true
}

// Within reports whether current usage is inside every limit.
func (u Usage) Within(l PlanLimits) bool {
	return u.Fits(l, ResourceProperties, 0) && u.Fits(l, ResourceUnits, 0) && u.Fits(l, ResourceMembers, 0)
}

type SubscriptionView struct {
	*Subscription
	Details Plan  `json:"details"`
	Usage   Usage `json:"usage"`
}

type ChangePlanRequest struct {
	Plan         PlanID       `json:"plan" binding:"required,oneof=starter growth professional"`
	BillingCycle BillingCycle `json:"billing_cycle" binding:"omitempty,oneof=monthly yearly"`
}
