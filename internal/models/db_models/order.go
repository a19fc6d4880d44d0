package db_models

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
	// Legacy methods still present in older rows.
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded:
		return true
	}
	return false
}

// TotalCents is frozen at placement time and never recomputed.
// TrackingNumber doubles as the gateway order id for online payments.
type Order struct {
	BaseModel
	UserID            uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	ShippingAddressID *uuid.UUID    `gorm:"type:uuid" json:"shipping_address_id"`
	TotalCents        int64         `gorm:"not null" json:"total_cents"`
	PaymentMethod     string        `gorm:"not null" json:"payment_method"`
	PaymentStatus     PaymentStatus `gorm:"default:pending" json:"payment_status"`
	TrackingNumber    string        `gorm:"index" json:"tracking_number,omitempty"`
	Status            OrderStatus   `gorm:"default:placed" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  User        `gorm:"foreignKey:UserID" json:"-"`
}

// Snapshot of product, quantity and unit price at order time; immutable after
// creation.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
