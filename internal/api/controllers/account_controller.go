package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grocart/internal/models/request_models"
	"grocart/internal/services"
	"grocart/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

func (ac *AccountController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	user, err := ac.accountService.Me(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Fetched profile successfully")
}

func (ac *AccountController) ListAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	addresses, err := ac.accountService.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, addresses, "Fetched addresses successfully")
}

func (ac *AccountController) AddAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	var request request_models.CreateAddressRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Missing address fields")
		return
	}

	address, err := ac.accountService.AddAddress(c.Request.Context(), userID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondStatus(c, http.StatusCreated, address, "Address added")
}

func (ac *AccountController) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	var request request_models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	address, err := ac.accountService.UpdateAddress(c.Request.Context(), userID, addressID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, address, "Address updated")
}

func (ac *AccountController) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := ac.accountService.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
