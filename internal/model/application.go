package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
	InviteStatusRevoked  InviteStatus = "revoked"
)

var InviteLifecycle = fsm.New("invite", map[InviteStatus][]InviteStatus{
	InviteStatusPending: {InviteStatusAccepted, InviteStatusExpired, InviteStatusRevoked},
})

// ApplicationInvite lets a prospect apply without an account. Only a hash of
// the token secret is stored.
type ApplicationInvite struct {
	Base
	OrgScope
	Email     string       `json:"email" db:"email"`
	Name      *string      `json:"name,omitempty" db:"name"`
	ListingID *uuid.UUID   `json:"listing_id,omitempty" db:"listing_id"`
	UnitID    *uuid.UUID   `json:"unit_id,omitempty" db:"unit_id"`
	TokenHash string       `json:"-" db:"token_hash"`
	Status    InviteStatus `json:"status" db:"status"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	InvitedBy *uuid.UUID   `json:"invited_by,omitempty" db:"invited_by"`
}

func (i *ApplicationInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// InviteSummary is what an anonymous holder of a valid token gets to see.
type InviteSummary struct {
	InviteID         uuid.UUID  `json:"invite_id"`
	OrganizationName string     `json:"organization_name"`
	Email            string     `json:"email"`
	Name             *string    `json:"name,omitempty"`
	Listing          *Listing   `json:"listing,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	UnitID           *uuid.UUID `json:"unit_id,omitempty"`
}

// IssuedInvite is returned once, at creation, with the plaintext token.
type IssuedInvite struct {
	*ApplicationInvite
	Token string `json:"token"`
	Link  string `json:"link"`
}

type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

var ApplicationLifecycle = fsm.New("application", map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusSubmitted: {
		ApplicationStatusUnderReview, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusWithdrawn,
	},
	ApplicationStatusUnderReview: {
		ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusWithdrawn,
	},
})

type Application struct {
	Base
	OrgScope
	InviteID       uuid.UUID         `json:"invite_id" db:"invite_id"`
	ListingID      *uuid.UUID        `json:"listing_id,omitempty" db:"listing_id"`
	UnitID         *uuid.UUID        `json:"unit_id,omitempty" db:"unit_id"`
	TenantID       *uuid.UUID        `json:"tenant_id,omitempty" db:"tenant_id"`
	FirstName      string            `json:"first_name" db:"first_name"`
	LastName       string            `json:"last_name" db:"last_name"`
	Email          string            `json:"email" db:"email"`
	Phone          *string           `json:"phone,omitempty" db:"phone"`
	CurrentAddress *string           `json:"current_address,omitempty" db:"current_address"`
	Employer       *string           `json:"employer,omitempty" db:"employer"`
	MonthlyIncome  *int64            `json:"monthly_income,omitempty" db:"monthly_income"`
	DesiredMoveIn  *time.Time        `json:"desired_move_in,omitempty" db:"desired_move_in"`
	Occupants      int               `json:"occupants" db:"occupants"`
	HasPets        bool              `json:"has_pets" db:"has_pets"`
	Message        *string           `json:"message,omitempty" db:"message"`
	Status         ApplicationStatus `json:"status" db:"status"`
	ReviewNotes    *string           `json:"review_notes,omitempty" db:"review_notes"`
	ReviewedBy     *uuid.UUID        `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt     *time.Time        `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

type ApplicationFilter struct {
	Status    ApplicationStatus `form:"status"`
	ListingID *uuid.UUID        `form:"-"`
}

type InviteFilter struct {
	Status InviteStatus `form:"status"`
}

type CreateInviteRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Name      *string `json:"name" binding:"omitempty,max=200"`
	ListingID *string `json:"listing_id" binding:"omitempty,uuid"`
	UnitID    *string `json:"unit_id" binding:"omitempty,uuid"`
	TTLHours  int     `json:"ttl_hours" binding:"omitempty,min=1,max=2160"`
}

type SubmitApplicationRequest struct {
	FirstName      string     `json:"first_name" binding:"required,max=100"`
	LastName       string     `json:"last_name" binding:"required,max=100"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          *string    `json:"phone" binding:"omitempty,max=32"`
	CurrentAddress *string    `json:"current_address" binding:"omitempty,max=500"`
	Employer       *string    `json:"employer" binding:"omitempty,max=200"`
	MonthlyIncome  *int64     `json:"monthly_income" binding:"omitempty,cents"`
	DesiredMoveIn  *time.Time `json:"desired_move_in"`
	Occupants      int        `json:"occupants" binding:"omitempty,min=1,max=20"`
	HasPets        bool       `json:"has_pets"`
	Message        *string    `json:"message" binding:"omitempty,max=2000"`
}

type ReviewApplicationRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}
