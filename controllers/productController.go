package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Kariqs/netshop-api/models"
	"github.com/Kariqs/netshop-api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func variantParam(ctx *gin.Context) (models.Variant, bool) {
	v, err := models.ParseVariant(ctx.Param("variant"))
	if err != nil {
		respondWithError(ctx, http.StatusNotFound, "Unknown product type", err)
		return "", false
	}
	return v, true
}

func GetProduct(ctx *gin.Context) {
	v, ok := variantParam(ctx)
	if !ok {
		return
	}
	product, err := catalog.ProductDetail(ctx.Request.Context(), v, ctx.Param("slug"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	specHTML, err := models.RenderSpecTable(product)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to render specification", err)
		return
	}

	view := productView(product)
	view["specification"] = product.Specification()
	view["specHtml"] = string(specHTML)
	ctx.JSON(http.StatusOK, view)
}

type createCategoryInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

func CreateCategory(ctx *gin.Context) {
	var input createCategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, err := catalog.CreateCategory(ctx.Request.Context(), input.Name, input.Slug)
	if errors.Is(err, models.ErrUnmappedCategory) {
		respondWithError(ctx, http.StatusBadRequest,
			fmt.Sprintf("Category name must be one of %s", strings.Join(models.CategoryNames(), ", ")), err)
		return
	}
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

func CreateProduct(ctx *gin.Context) {
	v, ok := variantParam(ctx)
	if !ok {
		return
	}
	a, err := models.AccessorFor(v)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	product := a.Model()
	if err := ctx.ShouldBindJSON(product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	product.Base().ID = 0
	if !product.UnitPrice().IsPositive() {
		respondWithError(ctx, http.StatusBadRequest, "Price must be positive", nil)
		return
	}

	if err := catalog.CreateProduct(ctx.Request.Context(), product); err != nil {
		sendServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, productView(product))
}

// UploadProductImage stores the "image" form file and makes it the product's image.
func UploadProductImage(ctx *gin.Context) {
	if images == nil {
		respondWithError(ctx, http.StatusServiceUnavailable, "Image storage is not configured", nil)
		return
	}
	v, ok := variantParam(ctx)
	if !ok {
		return
	}
	product, err := catalog.ProductDetail(ctx.Request.Context(), v, ctx.Param("slug"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read upload", err)
		return
	}
	defer f.Close()

	if err := storage.ValidateImage(f, file.Size); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid image", err)
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("products/%s/%s-%s%s", v, product.Base().Slug, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	url, err := images.Upload(ctx.Request.Context(), key, contentType, f)
	if err != nil {
		slog.Error("image upload failed", "key", key, "error", err)
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", nil)
		return
	}

	if err := catalog.SetProductImage(ctx.Request.Context(), product, url); err != nil {
		sendServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, productView(product))
}
