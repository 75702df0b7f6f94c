package routes

import (
	"go-restaurant-pos/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes gin.IRoutes, ctl *controllers.Controller) {
	incomingRoutes.POST("/users/signup", ctl.SignUp())
	incomingRoutes.POST("/users/login", ctl.Login())
}
