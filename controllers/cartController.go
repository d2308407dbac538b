package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/Kariqs/netshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func customerForUser(c context.Context, userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := initializers.DB.WithContext(c).Preload("User").Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer for user #%d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &customer, nil
}

// currentCart picks the signed-in customer's cart, or the anonymous cart of
// the session cookie.
func currentCart(ctx *gin.Context) (*models.Cart, *uint, error) {
	if userID, ok := middlewares.UserID(ctx); ok {
		customer, err := customerForUser(ctx.Request.Context(), userID)
		if err != nil {
			return nil, nil, err
		}
		cart, err := carts.CartForCustomer(ctx.Request.Context(), customer.ID)
		return cart, &customer.ID, err
	}
	cart, err := carts.CartForSession(ctx.Request.Context(), middlewares.SessionKey(ctx))
	return cart, nil, err
}

func itemRef(ctx *gin.Context) (models.ProductRef, bool) {
	v, ok := variantParam(ctx)
	if !ok {
		return nil, false
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return nil, false
	}
	ref, err := models.NewProductRef(v, uint(id))
	if err != nil {
		sendServiceError(ctx, err)
		return nil, false
	}
	return ref, true
}

func sendCart(ctx *gin.Context, status int, cart *models.Cart) {
	lines, err := carts.Lines(ctx.Request.Context(), cart)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	items := make([]gin.H, 0, len(lines))
	for _, l := range lines {
		items = append(items, gin.H{
			"id":         l.ID,
			"qty":        l.Qty,
			"finalPrice": l.FinalPrice,
			"product":    productView(l.Product),
		})
	}
	sendJSONResponse(ctx, status, gin.H{
		"id":            cart.ID,
		"items":         items,
		"totalProducts": cart.TotalProducts,
		"finalPrice":    cart.FinalPrice,
	})
}

func GetCart(ctx *gin.Context) {
	cart, _, err := currentCart(ctx)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, cart)
}

type addCartItemInput struct {
	Variant   string `json:"variant" binding:"required"`
	ProductID uint   `json:"productId" binding:"required"`
	Qty       *uint  `json:"qty"`
}

// CreateCartItem adds a product to the cart; qty defaults to one.
func CreateCartItem(ctx *gin.Context) {
	var input addCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid input", err)
		return
	}
	v, err := models.ParseVariant(input.Variant)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unknown product type", err)
		return
	}
	ref, err := models.NewProductRef(v, input.ProductID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	qty := uint(1)
	if input.Qty != nil {
		qty = *input.Qty
	}

	cart, customerID, err := currentCart(ctx)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	if _, err := carts.AddProduct(ctx.Request.Context(), cart, customerID, ref, qty); err != nil {
		sendServiceError(ctx, err)
		return
	}
	appMetrics.CartLinesWritten.Inc()
	sendCart(ctx, http.StatusCreated, cart)
}

type changeQtyInput struct {
	Qty uint `json:"qty"`
}

func UpdateCartItem(ctx *gin.Context) {
	ref, ok := itemRef(ctx)
	if !ok {
		return
	}
	var input changeQtyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid input", err)
		return
	}

	cart, _, err := currentCart(ctx)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	if _, err := carts.ChangeQuantity(ctx.Request.Context(), cart, ref, input.Qty); err != nil {
		sendServiceError(ctx, err)
		return
	}
	appMetrics.CartLinesWritten.Inc()
	sendCart(ctx, http.StatusOK, cart)
}

func DeleteCartItem(ctx *gin.Context) {
	ref, ok := itemRef(ctx)
	if !ok {
		return
	}
	cart, _, err := currentCart(ctx)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	if err := carts.RemoveProduct(ctx.Request.Context(), cart, ref); err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, cart)
}
