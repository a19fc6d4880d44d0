package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grocart/internal/models/request_models"
	"grocart/internal/services"
	"grocart/pkg/utils"
)

type CartController struct {
	cartService services.CartServiceInterface
}

func NewCartController(cartService services.CartServiceInterface) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	cart, err := cc.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cart, "Fetched cart successfully")
}

func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	var request request_models.AddToCartRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "productId and positive quantity required")
		return
	}

	cart, err := cc.cartService.AddItem(c.Request.Context(), userID, request.ProductID, request.Quantity)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cart, "Added to cart")
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid item id")
		return
	}

	var request request_models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Positive quantity required")
		return
	}

	cart, err := cc.cartService.UpdateItem(c.Request.Context(), userID, itemID, request.Quantity)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cart, "Cart item updated")
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid item id")
		return
	}

	cart, err := cc.cartService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cart, "Cart item removed")
}

func (cc *CartController) Clear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	cart, err := cc.cartService.Clear(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cart, "Cart cleared")
}
