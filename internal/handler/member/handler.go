package member

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/member"
)

type Handler struct {
	service member.MemberServicer
	guard   handler.Guard
}

func NewHandler(service member.MemberServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.MembersRead)
	write := h.guard.RequirePermission(permission.MembersWrite)

	members := r.Group("/members")
	{
		members.GET("", read, h.List)
		members.POST("", write, h.Add)
		members.PATCH("/:id", write, h.UpdateRole)
		members.DELETE("/:id", write, h.Remove)
	}
}

func (h *Handler) List(c *gin.Context) {
	members, err := h.service.List(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, members)
}

func (h *Handler) Add(c *gin.Context) {
	var req model.AddMemberRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	m, err := h.service.Add(c.Request.Context(), middleware.OrgID(c), req.Email, permission.Role(req.Role))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, m)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateMemberRoleRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	m, err := h.service.UpdateRole(c.Request.Context(), middleware.OrgID(c), id, permission.Role(req.Role))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, m)
}

func (h *Handler) Remove(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}
