package router

import (
	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/middleware"
)

// userRoutes defines the staff-only user directory. Listing is admin only;
// individual lookups are open to all staff roles.
func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(r.jwtMw.RequireRoles(middleware.SubjectStaff))
	{
		users.GET("", r.jwtMw.RequireRoles(middleware.SubjectStaff, constants.RoleAdmin), r.userHandler.GetAll)
		users.GET("/:id", r.userHandler.GetByID)
	}
}
