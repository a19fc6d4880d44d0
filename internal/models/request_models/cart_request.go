package request_models

import "github.com/google/uuid"

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}
