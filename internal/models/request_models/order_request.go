package request_models

import "github.com/google/uuid"

type PlaceOrderRequest struct {
	ShippingAddressID *uuid.UUID `json:"shipping_address_id"`
}

// AdminUpdateOrderRequest carries only the fields the admin actually sent;
// nil means no change. Values are validated against their enums, nothing
// restricts which transition is taken.
type AdminUpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}
