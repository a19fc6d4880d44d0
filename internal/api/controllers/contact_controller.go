package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grocart/internal/models/request_models"
	"grocart/internal/services"
	"grocart/pkg/utils"
)

type ContactController struct {
	contactService services.ContactServiceInterface
}

func NewContactController(contactService services.ContactServiceInterface) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

func (cc *ContactController) Create(c *gin.Context) {
	var request request_models.CreateContactRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "name, email, and message are required")
		return
	}

	contact, err := cc.contactService.Create(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondStatus(c, http.StatusCreated, contact, "Message submitted")
}

func (cc *ContactController) AdminList(c *gin.Context) {
	page, limit := pageParams(c, 100, 200)

	contacts, err := cc.contactService.List(c.Request.Context(), page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, contacts, "Fetched contacts successfully")
}

func (cc *ContactController) AdminUpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	var request request_models.UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "status is required")
		return
	}

	contact, err := cc.contactService.UpdateStatus(c.Request.Context(), id, request.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, contact, "Contact updated")
}

func (cc *ContactController) AdminDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := cc.contactService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Contact deleted")
}
