package model

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/permission"
)

// Organization is the root of tenant isolation.
type Organization struct {
	Base
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// OrganizationMember joins a user to an organization with a role.
type OrganizationMember struct {
	Base
	OrgScope
	UserID uuid.UUID       `json:"user_id" db:"user_id"`
	Role   permission.Role `json:"role" db:"role"`
}

// MemberView is a membership enriched with its user.
type MemberView struct {
	*OrganizationMember
	User *User `json:"user,omitempty"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
}

type UpdateOrganizationRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=120"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}
