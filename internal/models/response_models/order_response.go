package response_models

type OrderItemResponse struct {
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
	Name       string `json:"name"`
	ImageURL   string `json:"image"`
	Unit       string `json:"unit"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	TotalCents    int64               `json:"total_cents"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     int64               `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

type AdminOrderResponse struct {
	OrderResponse
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type PagedResponse struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
}
