package model

import (
	"github.com/jwalitptl/property-api/internal/permission"
)

// User maps 1:1 onto an identity-provider subject.
type User struct {
	Base
	Subject   string          `json:"subject" db:"subject"`
	Email     string          `json:"email" db:"email"`
	Name      string          `json:"name" db:"name"`
	Phone     *string         `json:"phone,omitempty" db:"phone"`
	AvatarURL *string         `json:"avatar_url,omitempty" db:"avatar_url"`
	Role      permission.Role `json:"role" db:"role"`
}

// IdentityClaims is what the identity provider tells us about the caller.
type IdentityClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}
