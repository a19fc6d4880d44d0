package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
	"grocart/internal/repositories"
	"grocart/pkg/realtime"
	"grocart/pkg/utils"
)

type CheckoutServiceInterface interface {
	// PlaceOrder runs the cash-on-delivery checkout: one transaction that
	// validates the cart, creates the order, decrements stock, closes the
	// cart and records a completed payment transaction.
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddressID *uuid.UUID) (*db_models.Order, error)
}

type CheckoutService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewCheckoutService(db *gorm.DB, hub *realtime.Hub) CheckoutServiceInterface {
	return &CheckoutService{db: db, hub: hub}
}

// checkoutState is everything the two checkout variants share after
// validation: the open cart, its priced lines and the frozen total.
type checkoutState struct {
	Cart  *db_models.Cart
	Lines []repositories.CartLine
	Total int64
}

// prepareCheckout validates the caller's cart inside tx: open cart with at
// least one line, every line within current stock (all-or-nothing), shipping
// address owned by the caller when supplied. The stock read here is
// optimistic; the conditional decrement is what actually guards stock.
func prepareCheckout(tx *gorm.DB, userID uuid.UUID, shippingAddressID *uuid.UUID) (*checkoutState, error) {
	var cart db_models.Cart
	err := tx.Where("user_id = ? AND status = ?", userID, db_models.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrEmptyCart
		}
		return nil, err
	}

	var lines []repositories.CartLine
	err = tx.Table("cart_items ci").
		Select(`ci.id AS item_id, ci.product_id, p.name, p.image_url, p.unit,
			p.category, p.is_veg, p.price_cents, p.stock, ci.quantity`).
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.cart_id = ? AND ci.deleted_at IS NULL", cart.ID).
		Order("ci.created_at").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, utils.ErrEmptyCart
	}

	for _, line := range lines {
		if line.Quantity > line.Stock {
			return nil, &utils.InsufficientStockError{
				ProductID:   line.ProductID.String(),
				ProductName: line.Name,
				Available:   line.Stock,
				Requested:   line.Quantity,
			}
		}
	}

	if shippingAddressID != nil {
		var count int64
		err := tx.Model(&db_models.Address{}).
			Where("id = ? AND user_id = ?", *shippingAddressID, userID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, utils.ErrInvalidAddress
		}
	}

	var total int64
	for _, line := range lines {
		total += line.Quantity * line.PriceCents
	}

	return &checkoutState{Cart: &cart, Lines: lines, Total: total}, nil
}

func insertOrderItems(tx *gorm.DB, orderID uuid.UUID, lines []repositories.CartLine) error {
	for _, line := range lines {
		item := db_models.OrderItem{
			OrderID:    orderID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// decrementStock is the atomic conditional decrement; zero rows affected
// means another checkout won the remaining stock.
func decrementStock(tx *gorm.DB, productID uuid.UUID, quantity int64) (bool, error) {
	res := tx.Model(&db_models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func restoreStock(tx *gorm.DB, productID uuid.UUID, quantity int64) error {
	return tx.Model(&db_models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

func closeCart(tx *gorm.DB, cartID uuid.UUID) error {
	if err := tx.Unscoped().Where("cart_id = ?", cartID).Delete(&db_models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Model(&db_models.Cart{}).
		Where("id = ?", cartID).
		Update("status", db_models.CartStatusOrdered).Error
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddressID *uuid.UUID) (*db_models.Order, error) {
	var order db_models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := prepareCheckout(tx, userID, shippingAddressID)
		if err != nil {
			return err
		}

		order = db_models.Order{
			UserID:            userID,
			ShippingAddressID: shippingAddressID,
			TotalCents:        state.Total,
			PaymentMethod:     db_models.PaymentMethodCOD,
			PaymentStatus:     db_models.PaymentStatusPending,
			Status:            db_models.OrderStatusPlaced,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := insertOrderItems(tx, order.ID, state.Lines); err != nil {
			return err
		}

		for _, line := range state.Lines {
			ok, err := decrementStock(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &utils.InsufficientStockError{
					ProductID:   line.ProductID.String(),
					ProductName: line.Name,
					Available:   line.Stock,
					Requested:   line.Quantity,
				}
			}
		}

		if err := closeCart(tx, state.Cart.ID); err != nil {
			return err
		}

		txn := db_models.Transaction{
			OrderID:     order.ID,
			UserID:      userID,
			AmountCents: state.Total,
			Type:        db_models.TxnTypePayment,
			Method:      db_models.PaymentMethodCOD,
			Status:      db_models.TxnStatusCompleted,
			Reference:   fmt.Sprintf("COD-%s-%d", order.ID, time.Now().Unix()),
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish("order:created", map[string]interface{}{
		"order_id":       order.ID.String(),
		"user_id":        userID.String(),
		"total_cents":    order.TotalCents,
		"payment_method": order.PaymentMethod,
	})

	return &order, nil
}
