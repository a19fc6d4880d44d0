package request_models

import "github.com/google/uuid"

type CreatePaymentOrderRequest struct {
	ShippingAddressID *uuid.UUID `json:"shipping_address_id"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

type PaymentFailureRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	Error          string `json:"error"`
}

type RefundRequest struct {
	Reason      string `json:"reason"`
	AmountCents *int64 `json:"amount_cents" binding:"omitempty,gt=0"`
}
