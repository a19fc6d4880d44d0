package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondStatus(c, http.StatusOK, data, message)
}

func RespondStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service failures onto the error taxonomy: 400 for
// bad input, 404 for unknown or unowned ids, 409 for conflicts, 403 for
// ownership, everything unexpected is a logged 500 with a generic message.
func HandleServiceError(c *gin.Context, err error) {
	var stockErr *InsufficientStockError
	var cancelErr *CancelStateError
	var gatewayErr *GatewayError

	switch {
	case errors.As(err, &stockErr):
		RespondError(c, http.StatusConflict, stockErr.Error())
	case errors.As(err, &cancelErr):
		RespondError(c, http.StatusBadRequest, cancelErr.Error())
	case errors.As(err, &gatewayErr):
		if gatewayErr.Description != "" {
			RespondError(c, http.StatusBadRequest, gatewayErr.Description)
			return
		}
		log.Printf("Gateway error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Payment gateway error")
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrOrderNotRefundable),
		errors.Is(err, ErrRefundTooLarge),
		errors.Is(err, ErrNoFieldsToUpdate),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPage),
		errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAddressNotFound),
		errors.Is(err, ErrContactNotFound),
		errors.Is(err, ErrCartItemNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrPaymentProcessed):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAccountDisabled), errors.Is(err, ErrNotOwner):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
