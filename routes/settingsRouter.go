package routes

import (
	"go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func SettingsRoutes(adminRoutes gin.IRoutes, ctl *controllers.Controller) {
	adminRoutes.GET("/settings", ctl.GetSettings())
	adminRoutes.PUT("/settings", ctl.UpdateSettings())
}
