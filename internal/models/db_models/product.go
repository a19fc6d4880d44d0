package db_models

import "github.com/lib/pq"

// PriceCents and MRPCents are minor currency units (paise); no floats anywhere
// near money.
type Product struct {
	BaseModel
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"default:General" json:"category"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	MRPCents    *int64         `json:"mrp_cents"`
	ImageURL    string         `json:"image_url"`
	Stock       int64          `gorm:"not null;default:0" json:"stock"`
	Unit        string         `json:"unit"`
	Brand       string         `json:"brand"`
	IsVeg       *bool          `json:"is_veg"`
	Origin      string         `json:"origin"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
}
