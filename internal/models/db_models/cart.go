package db_models

import "github.com/google/uuid"

type CartStatus string

const (
	CartStatusOpen      CartStatus = "open"
	CartStatusAbandoned CartStatus = "abandoned"
	CartStatusOrdered   CartStatus = "ordered"
)

// At most one open cart per user; enforced by the partial unique index
// uq_carts_user_open created in infra.Migrate.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Status CartStatus `gorm:"default:open" json:"status"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
	User  User       `gorm:"foreignKey:UserID" json:"-"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_cart_items_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_cart_items_cart_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
