package db_models

import "github.com/google/uuid"

type TransactionType string

const (
	TxnTypePayment TransactionType = "payment"
	TxnTypeRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "pending"
	TxnStatusCompleted TransactionStatus = "completed"
	TxnStatusFailed    TransactionStatus = "failed"
)

// Financial ledger entry for an order. Reference holds the external gateway
// identifier: the gateway order id while pending, the payment id once
// completed, or the refund id for refund rows. Rows are updated in place as
// the gateway reports progress on the same event.
type Transaction struct {
	BaseModel
	OrderID     uuid.UUID         `gorm:"type:uuid;index;not null" json:"order_id"`
	UserID      uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	AmountCents int64             `gorm:"not null" json:"amount_cents"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Method      string            `json:"method"`
	Status      TransactionStatus `gorm:"default:completed" json:"status"`
	Reference   string            `gorm:"index" json:"reference"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}
