package expense

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/expense"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service expense.ExpenseServicer
	guard   handler.Guard
}

func NewHandler(service expense.ExpenseServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.ExpensesRead)
	write := h.guard.RequirePermission(permission.ExpensesWrite)

	expenses := r.Group("/expenses")
	{
		expenses.GET("", read, h.List)
		expenses.POST("", write, h.Create)
		expenses.GET("/summary", read, h.Summary)
		expenses.GET("/export", read, h.Export)
		expenses.GET("/:id", read, h.Get)
		expenses.PATCH("/:id", write, h.Update)
		expenses.DELETE("/:id", write, h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ExpenseFilter
	ok := handler.BindFilter(c, &filter,
		handler.QueryID{Name: "property_id", Dst: &filter.PropertyID},
		handler.QueryID{Name: "vendor_id", Dst: &filter.VendorID},
	)
	if !ok {
		return
	}
	expenses, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, expenses)
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

func (h *Handler) Summary(c *gin.Context) {
	var period model.DateRange
	if !handler.BindFilter(c, &period) {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), middleware.OrgID(c), period)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, summary)
}

// Export streams the expenses in from/to as an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	var period model.DateRange
	if !handler.BindFilter(c, &period) {
		return
	}
	data, err := h.service.Export(c.Request.Context(), middleware.OrgID(c), period)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
