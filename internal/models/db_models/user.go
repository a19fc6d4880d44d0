package db_models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:customer" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	Addresses []Address `json:"-"`
	Orders    []Order   `json:"-"`
}
