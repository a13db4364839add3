package organization

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/organization"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

type Handler struct {
	service organization.OrganizationServicer
	guard   handler.Guard
}

func NewHandler(service organization.OrganizationServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterAccountRoutes mounts the routes that act on the caller rather than
// one organization. r must resolve the user first.
func (h *Handler) RegisterAccountRoutes(r *gin.RouterGroup) {
	orgs := r.Group("/organizations")
	{
		orgs.GET("", h.ListOrganizations)
		orgs.POST("", h.CreateOrganization)
	}
}

// RegisterRoutes mounts the routes scoped by X-Organization-ID.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	org := r.Group("/organization")
	{
		org.GET("", h.guard.RequirePermission(permission.OrganizationRead), h.GetOrganization)
		org.PATCH("", h.guard.RequirePermission(permission.OrganizationWrite), h.UpdateOrganization)
	}
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		handler.Fail(c, apperrors.NotAuthenticated())
		return
	}

	orgs, err := h.service.ListForUser(c.Request.Context(), user)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, orgs)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		handler.Fail(c, apperrors.NotAuthenticated())
		return
	}

	var req model.CreateOrganizationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	org, err := h.service.Create(c.Request.Context(), req.Name, user)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, org)
}

func (h *Handler) GetOrganization(c *gin.Context) {
	org, err := h.service.Get(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, org)
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	var req model.UpdateOrganizationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	org, err := h.service.Update(c.Request.Context(), middleware.OrgID(c), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, org)
}
