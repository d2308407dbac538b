package routes

import (
	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/metrics"
	"github.com/Kariqs/netshop-api/ratelimit"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/categories", controllers.GetCategories)
	server.GET("/category/:slug", controllers.GetCategory)
	server.GET("/products/:variant/:slug", controllers.GetProduct)
	server.GET("/metrics", metrics.Default.Handler())
}

// writeLimit throttles state-changing endpoints per client. Without Redis it
// lets everything through.
func writeLimit() gin.HandlerFunc {
	var limiter *ratelimit.Limiter
	if initializers.Redis != nil {
		limiter = ratelimit.NewLimiter(initializers.Redis, "netshop:ratelimit:")
	}
	return ratelimit.Middleware(limiter, initializers.Cfg.RateLimit, initializers.Cfg.RateWindow)
}

// Register mounts every route group on server.
func Register(server *gin.Engine) {
	DefaultRoutes(server)
	AuthRoutes(server)
	ProductRoutes(server)
	CartRoutes(server)
	OrderRoutes(server)
}
