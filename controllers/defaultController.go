package controllers

import (
	"net/http"

	"github.com/Kariqs/netshop-api/models"
	"github.com/gin-gonic/gin"
)

func productView(p models.Product) gin.H {
	return gin.H{
		"variant": p.Variant(),
		"url":     models.ProductURL(p),
		"product": p,
	}
}

func productViews(products []models.Product) []gin.H {
	views := make([]gin.H, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}
	return views
}

// GetHome returns the sidebar category counts and the newest products.
// ?priority=<variant> moves that variant's products to the front.
func GetHome(ctx *gin.Context) {
	var priority models.Variant
	if raw := ctx.Query("priority"); raw != "" {
		v, err := models.ParseVariant(raw)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		priority = v
	}

	counts, err := catalog.SidebarCategoryCounts(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	latest, err := catalog.LatestProducts(ctx.Request.Context(), models.Variants, priority)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"categories": counts,
		"products":   productViews(latest),
	})
}

func GetCategories(ctx *gin.Context) {
	categories, err := catalog.Categories(ctx.Request.Context())
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"categories": categories})
}

func GetCategory(ctx *gin.Context) {
	category, products, err := catalog.CategoryDetail(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"category": category,
		"products": productViews(products),
	})
}
