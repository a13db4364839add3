package permission

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/permission"
)

// Handler publishes the static role table so clients can hide actions the
// caller cannot take.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type roleView struct {
	Role        permission.Role         `json:"role"`
	Permissions []permission.Permission `json:"permissions"`
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/permissions", h.ListPermissions)
	r.GET("/roles", h.ListRoles)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	handler.OK(c, permission.All())
}

func (h *Handler) ListRoles(c *gin.Context) {
	roles := permission.Roles()
	out := make([]roleView, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleView{Role: role, Permissions: permission.PermissionsFor(role)})
	}
	handler.OK(c, out)
}
