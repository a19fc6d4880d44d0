package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grocart/internal/models/request_models"
	"grocart/internal/services"
	"grocart/pkg/utils"
)

type OrderController struct {
	checkoutService services.CheckoutServiceInterface
	orderService    services.OrderServiceInterface
}

func NewOrderController(checkoutService services.CheckoutServiceInterface, orderService services.OrderServiceInterface) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// PlaceOrder godoc
// @Summary Place a cash-on-delivery order from the caller's open cart
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body request_models.PlaceOrderRequest true "Place Order Request"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /orders/place [post]
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	// The shipping address is optional, so an empty body is fine.
	var request request_models.PlaceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	order, err := oc.checkoutService.PlaceOrder(c.Request.Context(), userID, request.ShippingAddressID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondStatus(c, http.StatusCreated, gin.H{"order": order}, "Order placed successfully")
}

func (oc *OrderController) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	orders, err := oc.orderService.ListOrders(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, orders, "Fetched orders successfully")
}

func (oc *OrderController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := oc.orderService.Cancel(c.Request.Context(), orderID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"order": order}, "Order cancelled")
}

func (oc *OrderController) AdminListOrders(c *gin.Context) {
	page, limit := pageParams(c, 50, 200)

	orders, err := oc.orderService.AdminListOrders(c.Request.Context(), page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, orders, "Fetched orders successfully")
}

func (oc *OrderController) AdminUpdateOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	var request request_models.AdminUpdateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := oc.orderService.AdminUpdateOrder(c.Request.Context(), orderID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, order, "Order updated")
}
