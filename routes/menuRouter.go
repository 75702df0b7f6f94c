package routes

import (
	"go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func MenuRoutes(incomingRoutes gin.IRoutes, adminRoutes gin.IRoutes, ctl *controllers.Controller) {
	incomingRoutes.GET("/menus", ctl.GetMenus())
	incomingRoutes.GET("/menus/:menu_id", ctl.GetMenu())
	incomingRoutes.GET("/categories", ctl.GetCategories())

	adminRoutes.POST("/menus", ctl.CreateMenu())
	adminRoutes.PATCH("/menus/:menu_id", ctl.UpdateMenu())
	adminRoutes.PUT("/menus/:menu_id/discount", ctl.SetMenuDiscount())
	adminRoutes.DELETE("/menus/:menu_id/discount", ctl.ClearMenuDiscount())
	adminRoutes.POST("/menus/:menu_id/stock", ctl.AdjustStock())
	adminRoutes.GET("/menus/:menu_id/stock", ctl.GetStockHistory())
	adminRoutes.POST("/categories", ctl.CreateCategory())
	adminRoutes.PATCH("/categories/:category_id", ctl.UpdateCategory())
}
