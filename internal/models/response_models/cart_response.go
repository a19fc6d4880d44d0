package response_models

type CartItemResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	Unit           string `json:"unit"`
	Category       string `json:"category"`
	IsVeg          *bool  `json:"is_veg"`
	PriceCents     int64  `json:"price_cents"`
	Quantity       int64  `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
}
