package routes

import (
	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	customer := server.Group("/", middlewares.RequireAuth())
	{
		customer.POST("/checkout", writeLimit(), controllers.Checkout)
		customer.GET("/orders/mine", controllers.GetMyOrders)
		customer.GET("/orders/:orderId", controllers.GetOrder)
	}

	admin := server.Group("/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.PATCH("/:orderId/status", controllers.UpdateOrderStatus)
	}
}
