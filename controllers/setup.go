package controllers

import (
	"github.com/Kariqs/netshop-api/events"
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/metrics"
	"github.com/Kariqs/netshop-api/services"
	"github.com/Kariqs/netshop-api/storage"
)

var (
	catalog    *services.CatalogService
	carts      *services.CartService
	orders     *services.OrderService
	images     storage.Uploader
	appMetrics = metrics.Default
)

type Deps struct {
	Publisher events.Publisher
	Notifier  services.Notifier
	// Images may be nil; image uploads then answer 503.
	Images  storage.Uploader
	Metrics *metrics.Metrics
}

// Setup builds the services the handlers use on top of initializers.DB.
// It must run after ConnectToDB and before the server starts.
func Setup(d Deps) {
	if d.Metrics != nil {
		appMetrics = d.Metrics
	}
	catalog = services.NewCatalogService(initializers.DB)
	carts = services.NewCartService(initializers.DB)
	orders = services.NewOrderService(initializers.DB, d.Publisher, d.Notifier, appMetrics)
	images = d.Images
}
