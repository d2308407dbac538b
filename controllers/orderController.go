package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/Kariqs/netshop-api/models"
	"github.com/Kariqs/netshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signedInCustomer(ctx *gin.Context) (*models.Customer, bool) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	customer, err := customerForUser(ctx.Request.Context(), userID)
	if err != nil {
		sendServiceError(ctx, err)
		return nil, false
	}
	return customer, true
}

func isAdmin(ctx *gin.Context) bool {
	v, _ := ctx.Get("user")
	claims, ok := v.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == roleAdmin
}

func orderIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("orderId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return uint(id), true
}

// Checkout places an order for the signed-in customer's open cart.
func Checkout(ctx *gin.Context) {
	customer, ok := signedInCustomer(ctx)
	if !ok {
		return
	}
	var input services.CheckoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Address == nil {
		input.Address = customer.Address
	}

	cart, err := carts.CartForCustomer(ctx.Request.Context(), customer.ID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	order, err := orders.Checkout(ctx.Request.Context(), customer, cart, input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func GetMyOrders(ctx *gin.Context) {
	customer, ok := signedInCustomer(ctx)
	if !ok {
		return
	}
	history, err := orders.CustomerOrders(ctx.Request.Context(), customer.ID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": history})
}

// GetOrder is visible to the ordering customer and to admins.
func GetOrder(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}
	order, err := orders.GetOrder(ctx.Request.Context(), orderID)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	if !isAdmin(ctx) {
		customer, ok := signedInCustomer(ctx)
		if !ok {
			return
		}
		if order.CustomerID != customer.ID {
			sendErrorResponse(ctx, http.StatusNotFound, models.ErrNotFound.Error())
			return
		}
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetOrders lists every order for admins: ?page, ?limit, ?sort=asc|desc, ?status.
func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	var status models.OrderStatus
	if raw := ctx.Query("status"); raw != "" {
		st, err := models.ParseOrderStatus(raw)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		status = st
	}

	result, err := orders.ListOrders(ctx.Request.Context(), page, limit, ctx.DefaultQuery("sort", "desc"), status)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": result.Orders,
		"metadata": gin.H{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

type updateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := orderIDParam(ctx)
	if !ok {
		return
	}
	var input updateStatusInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}

	order, err := orders.UpdateStatus(ctx.Request.Context(), orderID, status)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}
