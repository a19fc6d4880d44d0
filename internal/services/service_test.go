package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grocart/internal/gateway"
	"grocart/internal/models/db_models"
	"grocart/pkg/memcache"
	"grocart/pkg/realtime"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&db_models.User{},
		&db_models.Product{},
		&db_models.Address{},
		&db_models.Cart{},
		&db_models.CartItem{},
		&db_models.Order{},
		&db_models.OrderItem{},
		&db_models.Transaction{},
		&db_models.Contact{},
	)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB) *db_models.User {
	t.Helper()

	user := &db_models.User{
		Name:         "Asha",
		Email:        fmt.Sprintf("asha+%s@example.com", uuid.NewString()[:8]),
		Phone:        "9876543210",
		PasswordHash: "x",
		Role:         db_models.RoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents, stock int64) *db_models.Product {
	t.Helper()

	product := &db_models.Product{
		Name:       name,
		Category:   "Staples",
		PriceCents: priceCents,
		Stock:      stock,
		Unit:       "1 kg",
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedOpenCart(t *testing.T, db *gorm.DB, userID uuid.UUID, lines map[uuid.UUID]int64) *db_models.Cart {
	t.Helper()

	cart := &db_models.Cart{UserID: userID, Status: db_models.CartStatusOpen}
	require.NoError(t, db.Create(cart).Error)
	for productID, qty := range lines {
		item := &db_models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
		require.NoError(t, db.Create(item).Error)
	}
	return cart
}

func seedAddress(t *testing.T, db *gorm.DB, userID uuid.UUID) *db_models.Address {
	t.Helper()

	addr := &db_models.Address{
		UserID:     userID,
		Type:       db_models.AddressTypeShipping,
		Line1:      "14 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
	}
	require.NoError(t, db.Create(addr).Error)
	return addr
}

func productStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int64 {
	t.Helper()

	var product db_models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func orderByID(t *testing.T, db *gorm.DB, orderID uuid.UUID) *db_models.Order {
	t.Helper()

	var order db_models.Order
	require.NoError(t, db.First(&order, "id = ?", orderID).Error)
	return &order
}

// fakeGateway is a scriptable stand-in for the payment provider.
type fakeGateway struct {
	orderErr     error
	refundErr    error
	refundStatus string

	createdOrders []int64
	refunds       []fakeRefundCall
	nextOrderID   int
}

type fakeRefundCall struct {
	PaymentID   string
	AmountCents int64
}

func (g *fakeGateway) CreateOrder(amountCents int64, currency, receipt string, notes map[string]interface{}) (*gateway.GatewayOrder, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.nextOrderID++
	g.createdOrders = append(g.createdOrders, amountCents)
	return &gateway.GatewayOrder{
		ID:       fmt.Sprintf("order_fake%03d", g.nextOrderID),
		Amount:   amountCents,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) Refund(paymentID string, amountCents int64, notes map[string]interface{}) (*gateway.RefundResult, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, fakeRefundCall{PaymentID: paymentID, AmountCents: amountCents})
	status := g.refundStatus
	if status == "" {
		status = "processed"
	}
	return &gateway.RefundResult{
		ID:     fmt.Sprintf("rfnd_fake%03d", len(g.refunds)),
		Amount: amountCents,
		Status: status,
	}, nil
}

var testGatewayConfig = gateway.Config{
	KeyID:         "rzp_test_key",
	KeySecret:     "test_key_secret",
	WebhookSecret: "test_webhook_secret",
}

func newPaymentServiceForTest(t *testing.T, db *gorm.DB, gw gateway.Gateway) PaymentServiceInterface {
	t.Helper()

	svc, err := NewPaymentService(db, gw, testGatewayConfig, realtime.NewHub(), memcache.NewWebhookEvents())
	require.NoError(t, err)
	return svc
}

func testCtx() context.Context { return context.Background() }
