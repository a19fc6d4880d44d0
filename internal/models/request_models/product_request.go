package request_models

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PriceCents  *int64   `json:"price_cents" binding:"required,gte=0"`
	MRPCents    *int64   `json:"mrp_cents" binding:"omitempty,gte=0"`
	ImageURL    string   `json:"image_url"`
	Stock       *int64   `json:"stock" binding:"required,gte=0"`
	Unit        string   `json:"unit"`
	Brand       string   `json:"brand"`
	IsVeg       *bool    `json:"is_veg"`
	Origin      string   `json:"origin"`
	Tags        []string `json:"tags"`
}

// UpdateProductRequest enumerates every updatable field; nil means no change.
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	PriceCents  *int64    `json:"price_cents" binding:"omitempty,gte=0"`
	MRPCents    *int64    `json:"mrp_cents" binding:"omitempty,gte=0"`
	ImageURL    *string   `json:"image_url"`
	Stock       *int64    `json:"stock" binding:"omitempty,gte=0"`
	Unit        *string   `json:"unit"`
	Brand       *string   `json:"brand"`
	IsVeg       *bool     `json:"is_veg"`
	Origin      *string   `json:"origin"`
	Tags        *[]string `json:"tags"`
}

func (r *UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Category == nil &&
		r.PriceCents == nil && r.MRPCents == nil && r.ImageURL == nil &&
		r.Stock == nil && r.Unit == nil && r.Brand == nil &&
		r.IsVeg == nil && r.Origin == nil && r.Tags == nil
}
