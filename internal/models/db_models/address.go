package db_models

import "github.com/google/uuid"

const (
	AddressTypeBilling  = "billing"
	AddressTypeShipping = "shipping"
)

type Address struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Type       string    `gorm:"not null" json:"type"`
	Line1      string    `gorm:"not null" json:"line1"`
	Line2      string    `json:"line2"`
	City       string    `gorm:"not null" json:"city"`
	State      string    `gorm:"not null" json:"state"`
	PostalCode string    `gorm:"not null" json:"postal_code"`
	Country    string    `gorm:"default:India" json:"country"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
