package utils

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidAddress     = errors.New("invalid shipping address")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrContactNotFound    = errors.New("contact not found")
	ErrNotOwner           = errors.New("not allowed for this order")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrOrderNotRefundable = errors.New("order is not paid or already refunded")
	ErrPaymentProcessed   = errors.New("payment already processed for this order")
	ErrRefundTooLarge     = errors.New("refund amount cannot exceed payment amount")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrInvalidPage        = errors.New("invalid page parameter")
	ErrInvalidPageSize    = errors.New("invalid page size parameter")
	ErrDatabaseError      = errors.New("database error")
)

// InsufficientStockError names the first product that failed the stock check
// so the client can point at the offending cart line.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product: %s. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// CancelStateError reports a cancellation attempt on an order that already
// moved past the cancellable statuses.
type CancelStateError struct {
	Status string
}

func (e *CancelStateError) Error() string {
	return fmt.Sprintf("order cannot be cancelled in status %q", e.Status)
}

// GatewayError carries the payment provider's own description when the
// provider returned a structured failure.
type GatewayError struct {
	Description string
	Err         error
}

func (e *GatewayError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }
