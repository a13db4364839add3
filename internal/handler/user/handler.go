package user

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/user"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

// Handler serves the caller's own profile. Routes only need a verified
// token; /me/sync creates the user record on first login.
type Handler struct {
	service user.UserServicer
}

func NewHandler(service user.UserServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/me")
	{
		me.POST("/sync", h.Sync)
		me.GET("", h.Me)
		me.PATCH("", h.UpdateProfile)
	}
	r.PATCH("/users/:id/role", h.SetRole)
}

func (h *Handler) Sync(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Fail(c, apperrors.NotAuthenticated())
		return
	}

	u, err := h.service.SyncFromIdentity(c.Request.Context(), model.IdentityClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	})
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, u)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), middleware.Subject(c), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, u)
}

// SetRole changes a user's global role. Super admins only.
func (h *Handler) SetRole(c *gin.Context) {
	caller, err := h.service.Me(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	if caller.Role != permission.RoleSuperAdmin {
		handler.Fail(c, apperrors.MissingPermission("users:role"))
		return
	}

	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.SetUserRoleRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	role, err := permission.ParseRole(req.Role)
	if err != nil {
		handler.Fail(c, apperrors.BadRequest("unknown role", err))
		return
	}

	u, err := h.service.SetRole(c.Request.Context(), id, role)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, u)
}
