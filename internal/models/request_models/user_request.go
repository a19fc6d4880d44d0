package request_models

type AdminUpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=admin customer"`
	IsActive *bool   `json:"is_active"`
}
