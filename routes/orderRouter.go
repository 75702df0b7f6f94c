package routes

import (
	"go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes gin.IRoutes, ctl *controllers.Controller) {
	incomingRoutes.GET("/orders", ctl.GetOrders())
	incomingRoutes.GET("/orders/:order_id", ctl.GetOrder())
	incomingRoutes.PATCH("/orders/:order_id/status", ctl.UpdateOrderStatus())
	incomingRoutes.POST("/orders/:order_id/cancel", ctl.CancelOrder())
	incomingRoutes.GET("/orders/:order_id/receipt", ctl.GetReceipt())
	incomingRoutes.GET("/dashboard/summary", ctl.GetDailySummary())
}
