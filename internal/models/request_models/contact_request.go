package request_models

type CreateContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Message  string `json:"message" binding:"required"`
}

type UpdateContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
