package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/dashboard"
)

type Handler struct {
	service dashboard.DashboardServicer
	guard   handler.Guard
}

func NewHandler(service dashboard.DashboardServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.guard.RequirePermission(permission.ReportsRead), h.Stats)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}
