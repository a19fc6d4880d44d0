package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
	"grocart/internal/models/request_models"
	"grocart/internal/models/response_models"
	"grocart/pkg/realtime"
	"grocart/pkg/utils"
)

type OrderServiceInterface interface {
	ListOrders(ctx context.Context, userID uuid.UUID) ([]response_models.OrderResponse, error)
	AdminListOrders(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error)
	AdminUpdateOrder(ctx context.Context, orderID uuid.UUID, req request_models.AdminUpdateOrderRequest) (*db_models.Order, error)
	// Cancel is the customer-initiated cancellation: own orders only, from
	// placed or processing, restores stock, and for paid non-COD orders
	// records a completed refund transaction without a gateway call.
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*db_models.Order, error)
}

type OrderService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewOrderService(db *gorm.DB, hub *realtime.Hub) OrderServiceInterface {
	return &OrderService{db: db, hub: hub}
}

type orderItemRow struct {
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	PriceCents int64
	Name       string
	ImageURL   string
	Unit       string
}

func (s *OrderService) itemsByOrder(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]response_models.OrderItemResponse, error) {
	if len(orderIDs) == 0 {
		return map[uuid.UUID][]response_models.OrderItemResponse{}, nil
	}

	var rows []orderItemRow
	err := s.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.order_id, oi.product_id, oi.quantity, oi.price_cents, p.name, p.image_url, p.unit").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id IN ? AND oi.deleted_at IS NULL", orderIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]response_models.OrderItemResponse, len(orderIDs))
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], response_models.OrderItemResponse{
			ProductID:  row.ProductID.String(),
			Quantity:   row.Quantity,
			PriceCents: row.PriceCents,
			Name:       row.Name,
			ImageURL:   row.ImageURL,
			Unit:       row.Unit,
		})
	}
	return grouped, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]response_models.OrderResponse, error) {
	var orders []db_models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := s.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, response_models.OrderResponse{
			ID:            o.ID.String(),
			TotalCents:    o.TotalCents,
			Status:        string(o.Status),
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: string(o.PaymentStatus),
			CreatedAt:     o.CreatedAt,
			Items:         items[o.ID],
		})
	}
	return responses, nil
}

func (s *OrderService) AdminListOrders(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error) {
	var orders []db_models.Order
	offset := (page - 1) * pageSize

	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&db_models.Order{}).Count(&total).Error; err != nil {
		return nil, utils.ErrDatabaseError
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := s.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.AdminOrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, response_models.AdminOrderResponse{
			OrderResponse: response_models.OrderResponse{
				ID:            o.ID.String(),
				TotalCents:    o.TotalCents,
				Status:        string(o.Status),
				PaymentMethod: o.PaymentMethod,
				PaymentStatus: string(o.PaymentStatus),
				CreatedAt:     o.CreatedAt,
				Items:         items[o.ID],
			},
			UserID:    o.UserID.String(),
			UserName:  o.User.Name,
			UserEmail: o.User.Email,
		})
	}

	return &response_models.PagedResponse{
		Items: responses,
		Page:  page,
		Limit: pageSize,
		Total: total,
	}, nil
}

// AdminUpdateOrder sets whichever of status/payment_status were supplied.
// Values are checked for enum membership only; any value may follow any
// other.
func (s *OrderService) AdminUpdateOrder(ctx context.Context, orderID uuid.UUID, req request_models.AdminUpdateOrderRequest) (*db_models.Order, error) {
	if req.Status == nil && req.PaymentStatus == nil {
		return nil, utils.ErrNoFieldsToUpdate
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !db_models.ValidOrderStatus(*req.Status) {
			return nil, fmt.Errorf("%w: status %q", utils.ErrInvalidStatus, *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		if !db_models.ValidPaymentStatus(*req.PaymentStatus) {
			return nil, fmt.Errorf("%w: payment_status %q", utils.ErrInvalidStatus, *req.PaymentStatus)
		}
		updates["payment_status"] = *req.PaymentStatus
	}

	res := s.db.WithContext(ctx).Model(&db_models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return nil, utils.ErrDatabaseError
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrOrderNotFound
	}

	var order db_models.Order
	if err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, utils.ErrDatabaseError
	}

	s.hub.Publish("order:updated", map[string]interface{}{
		"order_id":       order.ID.String(),
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})

	return &order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*db_models.Order, error) {
	var order db_models.Order
	var refunded bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", orderID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrOrderNotFound
			}
			return err
		}
		if order.UserID != userID {
			return utils.ErrNotOwner
		}

		// Conditional flip serializes concurrent cancels: the second caller
		// sees zero rows and the already-cancelled status.
		res := tx.Model(&db_models.Order{}).
			Where("id = ? AND status IN ?", orderID,
				[]db_models.OrderStatus{db_models.OrderStatusPlaced, db_models.OrderStatusProcessing}).
			Update("status", db_models.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &utils.CancelStateError{Status: string(order.Status)}
		}

		// Stock is held by COD orders from placement and by online orders
		// only once paid; unverified online orders never took any.
		holdsStock := order.PaymentMethod == db_models.PaymentMethodCOD ||
			order.PaymentStatus == db_models.PaymentStatusPaid
		if holdsStock {
			var items []db_models.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		// Paid online orders get a locally fabricated refund record; COD
		// orders keep payment_status pending (nothing was captured).
		if order.PaymentMethod != db_models.PaymentMethodCOD &&
			order.PaymentStatus == db_models.PaymentStatusPaid {
			refundTxn := db_models.Transaction{
				OrderID:     order.ID,
				UserID:      order.UserID,
				AmountCents: order.TotalCents,
				Type:        db_models.TxnTypeRefund,
				Method:      order.PaymentMethod,
				Status:      db_models.TxnStatusCompleted,
				Reference:   fmt.Sprintf("CANCEL-%s-%d", order.ID, time.Now().Unix()),
			}
			if err := tx.Create(&refundTxn).Error; err != nil {
				return err
			}
			if err := tx.Model(&db_models.Order{}).
				Where("id = ?", order.ID).
				Update("payment_status", db_models.PaymentStatusRefunded).Error; err != nil {
				return err
			}
			refunded = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = db_models.OrderStatusCancelled
	if refunded {
		order.PaymentStatus = db_models.PaymentStatusRefunded
	}

	s.hub.Publish("order:cancelled", map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"refunded": refunded,
	})

	return &order, nil
}
