package routes

import (
	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/categories", controllers.CreateCategory)
		admin.POST("/products/:variant", controllers.CreateProduct)
		admin.POST("/products/:variant/:slug/image", controllers.UploadProductImage)
	}
}
