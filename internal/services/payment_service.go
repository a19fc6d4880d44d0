package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/gateway"
	"grocart/internal/models/db_models"
	"grocart/internal/models/response_models"
	"grocart/pkg/memcache"
	"grocart/pkg/realtime"
	"grocart/pkg/utils"
)

type PaymentServiceInterface interface {
	// CreatePaymentOrder is the online-payment checkout: validates the cart
	// like the COD flow, creates the pending order plus a gateway order, and
	// returns the handle the frontend needs to open the checkout widget.
	// Stock is NOT decremented until verification succeeds.
	CreatePaymentOrder(ctx context.Context, user *db_models.User, shippingAddressID *uuid.UUID) (*response_models.PaymentOrderResponse, error)

	// VerifyPayment checks the client-relayed signature and finalizes or
	// fails the matching order.
	VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*response_models.VerifyPaymentResponse, error)

	// RecordFailure is the out-of-band failure callback; idempotent, same
	// terminal state as a signature mismatch.
	RecordFailure(ctx context.Context, gatewayOrderID string) error

	// Refund is the gateway-backed refund, allowed for the order's owner or
	// an admin while payment_status is exactly "paid".
	Refund(ctx context.Context, orderID, callerID uuid.UUID, callerRole, reason string, amountCents *int64) (*response_models.RefundResponse, error)

	RefundStatus(ctx context.Context, orderID uuid.UUID) ([]response_models.RefundRecordResponse, error)

	HandleWebhook(c *gin.Context)
}

type paymentService struct {
	db     *gorm.DB
	gw     gateway.Gateway
	cfg    gateway.Config
	hub    *realtime.Hub
	events memcache.WebhookEventStore
}

func NewPaymentService(db *gorm.DB, gw gateway.Gateway, cfg gateway.Config, hub *realtime.Hub, events memcache.WebhookEventStore) (PaymentServiceInterface, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("missing payment gateway credentials")
	}
	return &paymentService{
		db:     db,
		gw:     gw,
		cfg:    cfg,
		hub:    hub,
		events: events,
	}, nil
}

func (p *paymentService) CreatePaymentOrder(ctx context.Context, user *db_models.User, shippingAddressID *uuid.UUID) (*response_models.PaymentOrderResponse, error) {
	var resp response_models.PaymentOrderResponse

	// The gateway call happens inside the transaction so a gateway outage
	// rolls back the pending order instead of leaving debris.
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := prepareCheckout(tx, user.ID, shippingAddressID)
		if err != nil {
			return err
		}

		order := db_models.Order{
			UserID:            user.ID,
			ShippingAddressID: shippingAddressID,
			TotalCents:        state.Total,
			PaymentMethod:     db_models.PaymentMethodOnline,
			PaymentStatus:     db_models.PaymentStatusPending,
			Status:            db_models.OrderStatusPlaced,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := insertOrderItems(tx, order.ID, state.Lines); err != nil {
			return err
		}

		gwOrder, err := p.gw.CreateOrder(state.Total, "INR",
			fmt.Sprintf("order_%s", order.ID),
			map[string]interface{}{
				"order_id":   order.ID.String(),
				"user_id":    user.ID.String(),
				"user_email": user.Email,
				"user_name":  user.Name,
			})
		if err != nil {
			return err
		}

		// The gateway order id rides on the tracking field for correlation.
		if err := tx.Model(&db_models.Order{}).
			Where("id = ?", order.ID).
			Update("tracking_number", gwOrder.ID).Error; err != nil {
			return err
		}

		txn := db_models.Transaction{
			OrderID:     order.ID,
			UserID:      user.ID,
			AmountCents: state.Total,
			Type:        db_models.TxnTypePayment,
			Method:      db_models.PaymentMethodOnline,
			Status:      db_models.TxnStatusPending,
			Reference:   gwOrder.ID,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		resp = response_models.PaymentOrderResponse{
			ID:             order.ID.String(),
			TotalCents:     order.TotalCents,
			GatewayOrderID: gwOrder.ID,
			GatewayKeyID:   p.cfg.KeyID,
			Amount:         gwOrder.Amount,
			Currency:       gwOrder.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// markPaymentFailed is shared by signature mismatch and the failure callback:
// order to failed/cancelled, its payment transaction to failed. Stock was
// never decremented for an unverified online order, so nothing to restore.
// The pending filter keeps a stray failure callback from clobbering an order
// that already verified.
func (p *paymentService) markPaymentFailed(ctx context.Context, gatewayOrderID string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Order{}).
			Where("tracking_number = ? AND payment_status = ?",
				gatewayOrderID, db_models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_status": db_models.PaymentStatusFailed,
				"status":         db_models.OrderStatusCancelled,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&db_models.Transaction{}).
			Where("reference = ? AND type = ? AND status = ?",
				gatewayOrderID, db_models.TxnTypePayment, db_models.TxnStatusPending).
			Update("status", db_models.TxnStatusFailed).Error
	})
}

func (p *paymentService) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*response_models.VerifyPaymentResponse, error) {
	if !p.cfg.VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature) {
		if err := p.markPaymentFailed(ctx, gatewayOrderID); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return &response_models.VerifyPaymentResponse{
			Success: false,
			Message: "Payment verification failed",
		}, nil
	}

	var order db_models.Order

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tracking_number = ?", gatewayOrderID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrOrderNotFound
			}
			return err
		}

		// Conditional flip out of pending serializes replays: only the
		// first valid verify moves the order, a retry or duplicate callback
		// sees zero rows and never touches stock or carts again.
		res := tx.Model(&db_models.Order{}).
			Where("id = ? AND payment_status = ?", order.ID, db_models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_status": db_models.PaymentStatusPaid,
				"status":         db_models.OrderStatusProcessing,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrPaymentProcessed
		}

		var items []db_models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}

		// Deferred decrement: this is the first moment the reserved lines
		// meet real stock. A conflicting concurrent checkout surfaces here.
		for _, item := range items {
			ok, err := decrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &utils.InsufficientStockError{
					ProductID: item.ProductID.String(),
					Requested: item.Quantity,
				}
			}
		}

		if err := tx.Model(&db_models.Transaction{}).
			Where("order_id = ? AND type = ?", order.ID, db_models.TxnTypePayment).
			Updates(map[string]interface{}{
				"status":    db_models.TxnStatusCompleted,
				"reference": gatewayPaymentID,
			}).Error; err != nil {
			return err
		}

		var cart db_models.Cart
		err = tx.Where("user_id = ? AND status = ?", order.UserID, db_models.CartStatusOpen).
			First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Cart already closed; verification is still valid.
				return nil
			}
			return err
		}
		return closeCart(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	p.hub.Publish("payment:verified", map[string]interface{}{
		"order_id":       order.ID.String(),
		"user_id":        order.UserID.String(),
		"payment_status": db_models.PaymentStatusPaid,
		"status":         db_models.OrderStatusProcessing,
	})

	return &response_models.VerifyPaymentResponse{
		Success: true,
		Message: "Payment verified successfully",
		OrderID: order.ID.String(),
	}, nil
}

func (p *paymentService) RecordFailure(ctx context.Context, gatewayOrderID string) error {
	if err := p.markPaymentFailed(ctx, gatewayOrderID); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (p *paymentService) Refund(ctx context.Context, orderID, callerID uuid.UUID, callerRole, reason string, amountCents *int64) (*response_models.RefundResponse, error) {
	var order db_models.Order
	err := p.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, utils.ErrDatabaseError
	}

	if callerRole != db_models.RoleAdmin && callerID != order.UserID {
		return nil, utils.ErrNotOwner
	}
	if order.PaymentStatus != db_models.PaymentStatusPaid {
		return nil, utils.ErrOrderNotRefundable
	}

	var paymentTxn db_models.Transaction
	err = p.db.WithContext(ctx).
		Where("order_id = ? AND type = ? AND status = ?",
			order.ID, db_models.TxnTypePayment, db_models.TxnStatusCompleted).
		First(&paymentTxn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotRefundable
		}
		return nil, utils.ErrDatabaseError
	}

	refundAmount := paymentTxn.AmountCents
	if amountCents != nil {
		refundAmount = *amountCents
	}
	if refundAmount > paymentTxn.AmountCents {
		return nil, utils.ErrRefundTooLarge
	}

	if reason == "" {
		reason = "Customer requested refund"
	}

	// The gateway call stays outside the transaction; a processed refund
	// must be recorded even if the local bookkeeping needs a retry.
	refund, err := p.gw.Refund(paymentTxn.Reference, refundAmount, map[string]interface{}{
		"order_id": order.ID.String(),
		"reason":   reason,
	})
	if err != nil {
		return nil, err
	}

	fullRefund := refundAmount == paymentTxn.AmountCents

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Partial refunds leave payment_status at "paid"; there is no
		// per-partial-refund state on the order itself.
		newPaymentStatus := db_models.PaymentStatusPaid
		if fullRefund {
			newPaymentStatus = db_models.PaymentStatusRefunded
		}
		if err := tx.Model(&db_models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"payment_status": newPaymentStatus,
				"status":         db_models.OrderStatusCancelled,
			}).Error; err != nil {
			return err
		}

		status := db_models.TxnStatusPending
		if refund.Status == "processed" {
			status = db_models.TxnStatusCompleted
		}
		refundTxn := db_models.Transaction{
			OrderID:     order.ID,
			UserID:      order.UserID,
			AmountCents: refundAmount,
			Type:        db_models.TxnTypeRefund,
			Method:      db_models.PaymentMethodOnline,
			Status:      status,
			Reference:   refund.ID,
		}
		if err := tx.Create(&refundTxn).Error; err != nil {
			return err
		}

		var items []db_models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	p.hub.Publish("order:refunded", map[string]interface{}{
		"order_id":  order.ID.String(),
		"refund_id": refund.ID,
		"amount":    refundAmount,
		"status":    refund.Status,
	})

	return &response_models.RefundResponse{
		ID:          refund.ID,
		AmountCents: refundAmount,
		Status:      refund.Status,
		OrderID:     order.ID.String(),
	}, nil
}

func (p *paymentService) RefundStatus(ctx context.Context, orderID uuid.UUID) ([]response_models.RefundRecordResponse, error) {
	var txns []db_models.Transaction
	err := p.db.WithContext(ctx).
		Where("order_id = ? AND type = ?", orderID, db_models.TxnTypeRefund).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	refunds := make([]response_models.RefundRecordResponse, 0, len(txns))
	for _, txn := range txns {
		refunds = append(refunds, response_models.RefundRecordResponse{
			ID:          txn.ID.String(),
			AmountCents: txn.AmountCents,
			Status:      string(txn.Status),
			Reference:   txn.Reference,
			CreatedAt:   txn.CreatedAt,
		})
	}
	return refunds, nil
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// HandleWebhook is the asynchronous callback channel from the gateway. The
// verify endpoint stays the authoritative finalize path; here only refund
// outcomes mutate state, payment events are logged. An event id is marked
// processed only after its handler succeeds, so a failed update answers 500
// and the gateway's retry gets another attempt instead of a duplicate reply.
func (p *paymentService) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("webhook: failed to read body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !p.cfg.VerifyWebhookSignature(rawBody, signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		log.Printf("webhook: invalid payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	eventID := c.GetHeader("X-Razorpay-Event-Id")
	if eventID != "" && p.events.Seen(eventID) {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	ctx := c.Request.Context()

	var handleErr error
	switch body.Event {
	case "payment.captured", "payment.failed":
		// Observed only; verify() owns payment finalization.
		log.Printf("webhook: %s for payment %s", body.Event, body.Payload.Payment.Entity.ID)

	case "refund.processed":
		handleErr = p.updateRefundTxn(ctx, body.Payload.Refund.Entity.ID, db_models.TxnStatusCompleted)

	case "refund.failed":
		handleErr = p.updateRefundTxn(ctx, body.Payload.Refund.Entity.ID, db_models.TxnStatusFailed)

	default:
		log.Printf("webhook: unhandled event %q", body.Event)
	}

	if handleErr != nil {
		log.Printf("webhook: failed to handle %s: %v", body.Event, handleErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	if eventID != "" {
		p.events.MarkProcessed(eventID, 24*time.Hour)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (p *paymentService) updateRefundTxn(ctx context.Context, refundID string, status db_models.TransactionStatus) error {
	if refundID == "" {
		return nil
	}
	return p.db.WithContext(ctx).Model(&db_models.Transaction{}).
		Where("reference = ? AND type = ?", refundID, db_models.TxnTypeRefund).
		Update("status", status).Error
}
