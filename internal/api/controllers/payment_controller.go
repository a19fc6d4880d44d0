package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grocart/internal/models/db_models"
	"grocart/internal/models/request_models"
	"grocart/internal/services"
	"grocart/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreateOrder godoc
// @Summary Create a gateway order for online payment of the caller's cart
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentOrderRequest true "Create Payment Order Request"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment/create-order [post]
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	var request request_models.CreatePaymentOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	user := &db_models.User{
		Name:  c.GetString("user_name"),
		Email: c.GetString("user_email"),
	}
	user.ID = userID

	order, err := pc.paymentService.CreatePaymentOrder(c.Request.Context(), user, request.ShippingAddressID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondStatus(c, http.StatusCreated, gin.H{"order": order}, "Payment order created")
}

func (pc *PaymentController) Verify(c *gin.Context) {
	var request request_models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Missing payment verification details")
		return
	}

	resp, err := pc.paymentService.VerifyPayment(c.Request.Context(),
		request.GatewayOrderID, request.GatewayPaymentID, request.Signature)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if !resp.Success {
		utils.RespondStatus(c, http.StatusBadRequest, resp, resp.Message)
		return
	}
	utils.RespondSuccess(c, resp, resp.Message)
}

func (pc *PaymentController) Failure(c *gin.Context) {
	var request request_models.PaymentFailureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Missing order ID")
		return
	}

	if err := pc.paymentService.RecordFailure(c.Request.Context(), request.GatewayOrderID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Payment failure recorded")
}

func (pc *PaymentController) Refund(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	var request request_models.RefundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	refund, err := pc.paymentService.Refund(c.Request.Context(), orderID, userID,
		c.GetString("Role"), request.Reason, request.AmountCents)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"refund": refund}, "Refund initiated successfully")
}

func (pc *PaymentController) RefundStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	refunds, err := pc.paymentService.RefundStatus(c.Request.Context(), orderID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"refunds": refunds}, "Fetched refunds successfully")
}

func (pc *PaymentController) Webhook(c *gin.Context) {
	pc.paymentService.HandleWebhook(c)
}
