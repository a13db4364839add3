package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/permission"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/httputil"
)

// BindJSON binds and validates the body. On failure the error is attached
// to the context and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Fail(c, bindError("invalid request body", err))
		return false
	}
	return true
}

// BindQuery binds query parameters into a filter struct.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		Fail(c, bindError("invalid query parameters", err))
		return false
	}
	return true
}

func bindError(msg string, err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return verrs
	}
	return apperrors.BadRequest(msg, err)
}

// PathID parses a uuid path parameter.
func PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Fail(c, apperrors.BadRequest("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// Fail hands err to the error middleware.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func OK(c *gin.Context, data interface{}) {
	httputil.RespondWithSuccess(c, http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	httputil.RespondWithSuccess(c, http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Guard builds the per-route permission check.
type Guard interface {
	RequirePermission(p permission.Permission) gin.HandlerFunc
}
