package listing

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/listing"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

type Handler struct {
	service listing.ListingServicer
	guard   handler.Guard
}

func NewHandler(service listing.ListingServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterPublicRoutes mounts the anonymous marketplace.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	market := r.Group("/marketplace/listings")
	{
		market.GET("", h.ListPublic)
		market.GET("/:slug", h.GetBySlug)
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.ListingsRead)
	write := h.guard.RequirePermission(permission.ListingsWrite)

	listings := r.Group("/listings")
	{
		listings.GET("", read, h.List)
		listings.POST("", write, h.Create)
		listings.GET("/:id", read, h.Get)
		listings.PATCH("/:id", write, h.Update)
		listings.DELETE("/:id", write, h.Delete)
		listings.POST("/:id/publish", write, h.Publish)
		listings.POST("/:id/pause", write, h.Pause)
		listings.POST("/:id/rented", write, h.MarkRented)
		listings.POST("/:id/expire", write, h.Expire)
	}
}

func (h *Handler) ListPublic(c *gin.Context) {
	var filter model.MarketplaceFilter
	if !handler.BindFilter(c, &filter) {
		return
	}
	listings, err := h.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, listings)
}

// GetBySlug only shows active listings; anything else is reported missing.
func (h *Handler) GetBySlug(c *gin.Context) {
	l, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	if l == nil || l.Status != model.ListingStatusActive {
		handler.Fail(c, apperrors.NotFound("Listing"))
		return
	}
	handler.OK(c, l)
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ListingFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "property_id", Dst: &filter.PropertyID}) {
		return
	}
	listings, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, listings)
}

func (h *Handler) Create(c *gin.Context) {
	handler.Create(c, h.service.Create)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) Update(c *gin.Context) {
	handler.UpdateByID(c, h.service.Update)
}

func (h *Handler) Delete(c *gin.Context) {
	handler.DeleteByID(c, h.service.Delete)
}

func (h *Handler) Publish(c *gin.Context) {
	handler.ByID(c, h.service.Publish)
}

func (h *Handler) Pause(c *gin.Context) {
	handler.ByID(c, h.service.Pause)
}

func (h *Handler) MarkRented(c *gin.Context) {
	handler.ByID(c, h.service.MarkRented)
}

func (h *Handler) Expire(c *gin.Context) {
	handler.ByID(c, h.service.Expire)
}
