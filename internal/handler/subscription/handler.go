package subscription

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/subscription"
)

type Handler struct {
	service subscription.SubscriptionServicer
	guard   handler.Guard
}

func NewHandler(service subscription.SubscriptionServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterPublicRoutes mounts the plan catalogue.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/plans", h.ListPlans)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.SubscriptionRead)
	write := h.guard.RequirePermission(permission.SubscriptionWrite)

	sub := r.Group("/subscription")
	{
		sub.GET("", read, h.Get)
		sub.GET("/usage", read, h.Usage)
		sub.PUT("/plan", write, h.ChangePlan)
		sub.POST("/activate", write, h.Activate)
		sub.POST("/cancel", write, h.Cancel)
		sub.POST("/reactivate", write, h.Reactivate)
	}
}

func (h *Handler) ListPlans(c *gin.Context) {
	handler.OK(c, model.Plans())
}

func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}

func (h *Handler) Usage(c *gin.Context) {
	usage, err := h.service.Usage(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, usage)
}

func (h *Handler) ChangePlan(c *gin.Context) {
	var req model.ChangePlanRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	view, err := h.service.ChangePlan(c.Request.Context(), middleware.OrgID(c), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}

func (h *Handler) Activate(c *gin.Context) {
	h.respond(c, h.service.Activate)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.respond(c, h.service.Cancel)
}

func (h *Handler) Reactivate(c *gin.Context) {
	h.respond(c, h.service.Reactivate)
}

func (h *Handler) respond(c *gin.Context, op func(ctx context.Context, orgID uuid.UUID) (*model.SubscriptionView, error)) {
	view, err := op(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}
