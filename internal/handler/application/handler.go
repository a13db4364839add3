package application

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/application"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

type Handler struct {
	service application.ApplicationServicer
	guard   handler.Guard
}

func NewHandler(service application.ApplicationServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterPublicRoutes mounts the applicant side, authorized by the invite
// token alone.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	invites := r.Group("/invites/:token")
	{
		invites.GET("", h.ResolveInvite)
		invites.POST("/apply", h.Submit)
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.ApplicationsRead)
	write := h.guard.RequirePermission(permission.ApplicationsWrite)

	invites := r.Group("/application-invites")
	{
		invites.GET("", read, h.ListInvites)
		invites.POST("", write, h.CreateInvite)
		invites.POST("/:id/revoke", write, h.RevokeInvite)
	}

	applications := r.Group("/applications")
	{
		applications.GET("", read, h.List)
		applications.GET("/:id", read, h.Get)
		applications.POST("/:id/review", write, h.StartReview)
		applications.POST("/:id/approve", write, h.Approve)
		applications.POST("/:id/reject", write, h.Reject)
		applications.POST("/:id/withdraw", write, h.Withdraw)
	}
}

func (h *Handler) ResolveInvite(c *gin.Context) {
	summary, err := h.service.ResolveInvite(c.Request.Context(), c.Param("token"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, summary)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitApplicationRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	app, err := h.service.Submit(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, app)
}

func (h *Handler) ListInvites(c *gin.Context) {
	var filter model.InviteFilter
	if !handler.BindFilter(c, &filter) {
		return
	}
	invites, err := h.service.ListInvites(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, invites)
}

// CreateInvite answers with the raw token once; only its hash is stored.
func (h *Handler) CreateInvite(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		handler.Fail(c, apperrors.NotAuthenticated())
		return
	}
	var req model.CreateInviteRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	issued, err := h.service.CreateInvite(c.Request.Context(), middleware.OrgID(c), user.ID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, issued)
}

func (h *Handler) RevokeInvite(c *gin.Context) {
	handler.ByID(c, h.service.RevokeInvite)
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ApplicationFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "listing_id", Dst: &filter.ListingID}) {
		return
	}
	apps, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, apps)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) StartReview(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	app, err := h.service.StartReview(c.Request.Context(), middleware.OrgID(c), id, reviewer(c).ID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, app)
}

type approvedResponse struct {
	Application *model.Application `json:"application"`
	Tenant      *model.Tenant      `json:"tenant"`
}

func (h *Handler) Approve(c *gin.Context) {
	id, req, ok := reviewInput(c)
	if !ok {
		return
	}
	app, tenant, err := h.service.Approve(c.Request.Context(), middleware.OrgID(c), id, reviewer(c).ID, req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, approvedResponse{Application: app, Tenant: tenant})
}

func (h *Handler) Reject(c *gin.Context) {
	id, req, ok := reviewInput(c)
	if !ok {
		return
	}
	app, err := h.service.Reject(c.Request.Context(), middleware.OrgID(c), id, reviewer(c).ID, req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, app)
}

func (h *Handler) Withdraw(c *gin.Context) {
	handler.ByID(c, h.service.Withdraw)
}

func reviewInput(c *gin.Context) (id uuid.UUID, req *model.ReviewApplicationRequest, ok bool) {
	id, ok = handler.PathID(c, "id")
	if !ok {
		return id, nil, false
	}
	req = &model.ReviewApplicationRequest{}
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, req) {
		return id, nil, false
	}
	return id, req, true
}

// reviewer is set by RequirePermission on every route that calls this.
func reviewer(c *gin.Context) *model.User {
	return middleware.UserFrom(c)
}
