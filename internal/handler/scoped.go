package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/middleware"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

// ByID runs op on the :id resource of the request's organization and renders
// the result. Used for reads and body-less status changes.
func ByID[T any](c *gin.Context, op func(ctx context.Context, orgID, id uuid.UUID) (T, error)) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	out, err := op(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, out)
}

// DeleteByID runs a delete on the :id resource and answers 204.
func DeleteByID(c *gin.Context, op func(ctx context.Context, orgID, id uuid.UUID) error) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		Fail(c, err)
		return
	}
	NoContent(c)
}

// UpdateByID binds a body of type R and passes it to op for the :id resource.
func UpdateByID[R any, T any](c *gin.Context, op func(ctx context.Context, orgID, id uuid.UUID, req *R) (T, error)) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	req := new(R)
	if !BindJSON(c, req) {
		return
	}
	out, err := op(c.Request.Context(), middleware.OrgID(c), id, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, out)
}

// Create binds a body of type R and answers 201 with op's result.
func Create[R any, T any](c *gin.Context, op func(ctx context.Context, orgID uuid.UUID, req *R) (T, error)) {
	req := new(R)
	if !BindJSON(c, req) {
		return
	}
	out, err := op(c.Request.Context(), middleware.OrgID(c), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, out)
}

// QueryID names an optional uuid query parameter and the filter field it
// fills. uuid.UUID has no form binding of its own.
type QueryID struct {
	Name string
	Dst  **uuid.UUID
}

// BindFilter binds query parameters into filter, then parses ids.
func BindFilter(c *gin.Context, filter interface{}, ids ...QueryID) bool {
	if !BindQuery(c, filter) {
		return false
	}
	for _, q := range ids {
		raw := c.Query(q.Name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			Fail(c, apperrors.BadRequest("invalid "+q.Name, err))
			return false
		}
		*q.Dst = &id
	}
	return true
}
