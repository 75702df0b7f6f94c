package routes

import (
	"go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

// CartRoutes expects the session middleware on incomingRoutes.
func CartRoutes(incomingRoutes gin.IRoutes, ctl *controllers.Controller) {
	incomingRoutes.GET("/cart", ctl.GetCart())
	incomingRoutes.DELETE("/cart", ctl.ClearCart())
	incomingRoutes.POST("/cart/items", ctl.AddCartItem())
	incomingRoutes.PATCH("/cart/items/:menu_id/quantity", ctl.UpdateCartItemQuantity())
	incomingRoutes.PATCH("/cart/items/:menu_id/note", ctl.UpdateCartItemNote())
	incomingRoutes.DELETE("/cart/items/:menu_id", ctl.RemoveCartItem())
	incomingRoutes.POST("/cart/discount", ctl.ToggleCartDiscount())
	incomingRoutes.POST("/checkout", ctl.Checkout())
}
