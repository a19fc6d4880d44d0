package request_models

type CreateAddressRequest struct {
	Type       string `json:"type" binding:"omitempty,oneof=billing shipping"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Type       *string `json:"type" binding:"omitempty,oneof=billing shipping"`
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"is_default"`
}
