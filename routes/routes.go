package routes

import (
	"go-restaurant-pos/controllers"
	"go-restaurant-pos/middleware"
	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
)

// Register wires every route. Public routes come first, then everything
// behind the token check, with administration behind the ADMIN role.
func Register(router *gin.Engine, ctl *controllers.Controller) {
	router.GET("/health", ctl.Health())
	UserRoutes(router, ctl)

	authed := router.Group("/", middleware.Authentication(ctl.Tokens))
	admin := authed.Group("/", middleware.RequireRole(models.RoleAdmin))

	CartRoutes(authed.Group("/", middleware.Session()), ctl)
	OrderRoutes(authed, ctl)
	MenuRoutes(authed, admin, ctl)
	SettingsRoutes(admin, ctl)
	admin.GET("/users", ctl.GetUsers())
	authed.GET("/ws", ctl.Hub.HandleWebSocket())
}
