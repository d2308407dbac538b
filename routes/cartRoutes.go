package routes

import (
	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.OptionalAuth(), middlewares.Session())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", writeLimit(), controllers.CreateCartItem)
		cart.PATCH("/items/:variant/:id", writeLimit(), controllers.UpdateCartItem)
		cart.DELETE("/items/:variant/:id", controllers.DeleteCartItem)
	}
}
