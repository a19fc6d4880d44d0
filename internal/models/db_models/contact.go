package db_models

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResponded  ContactStatus = "responded"
)

func ValidContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResponded:
		return true
	}
	return false
}

// Standalone support ticket; intentionally not linked to a user account so
// anonymous visitors can write in.
type Contact struct {
	BaseModel
	Name     string        `gorm:"not null" json:"name"`
	Email    string        `gorm:"not null" json:"email"`
	Subject  string        `json:"subject"`
	Category string        `json:"category"`
	Message  string        `gorm:"not null" json:"message"`
	Status   ContactStatus `gorm:"default:new" json:"status"`
}
