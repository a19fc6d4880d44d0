package response_models

// What the frontend needs to open the provider's checkout widget.
type PaymentOrderResponse struct {
	ID             string `json:"id"`
	TotalCents     int64  `json:"total_cents"`
	GatewayOrderID string `json:"gateway_order_id"`
	GatewayKeyID   string `json:"gateway_key_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

type RefundResponse struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	OrderID     string `json:"order_id"`
}

type RefundRecordResponse struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
	CreatedAt   int64  `json:"created_at"`
}
