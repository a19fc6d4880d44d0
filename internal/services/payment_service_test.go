package services

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"grocart/internal/gateway"
	"grocart/internal/models/db_models"
	"grocart/pkg/utils"
)

func TestCreatePaymentOrder(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 2})

	gw := &fakeGateway{}
	svc := newPaymentServiceForTest(t, db, gw)

	resp, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(20000), resp.TotalCents)
	assert.Equal(t, "order_fake001", resp.GatewayOrderID)
	assert.Equal(t, testGatewayConfig.KeyID, resp.GatewayKeyID)
	assert.Equal(t, "INR", resp.Currency)
	require.Len(t, gw.createdOrders, 1)
	assert.Equal(t, int64(20000), gw.createdOrders[0])

	orderID := uuid.MustParse(resp.ID)
	order := orderByID(t, db, orderID)
	assert.Equal(t, db_models.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, db_models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "order_fake001", order.TrackingNumber)

	// Stock and cart are untouched until verification.
	assert.Equal(t, int64(5), productStock(t, db, rice.ID))
	var cart db_models.Cart
	require.NoError(t, db.First(&cart, "user_id = ? AND status = ?", user.ID, db_models.CartStatusOpen).Error)

	var txn db_models.Transaction
	require.NoError(t, db.First(&txn, "order_id = ?", orderID).Error)
	assert.Equal(t, db_models.TxnStatusPending, txn.Status)
	assert.Equal(t, "order_fake001", txn.Reference)
}

func TestCreatePaymentOrderGatewayOutageRollsBack(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 1})

	gw := &fakeGateway{orderErr: &utils.GatewayError{Err: errors.New("gateway unreachable")}}
	svc := newPaymentServiceForTest(t, db, gw)

	_, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	var gwErr *utils.GatewayError
	require.ErrorAs(t, err, &gwErr)

	var orderCount int64
	require.NoError(t, db.Model(&db_models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	var txnCount int64
	require.NoError(t, db.Model(&db_models.Transaction{}).Count(&txnCount).Error)
	assert.Zero(t, txnCount)
}

func TestVerifyPaymentSuccess(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 2})

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	paymentID := "pay_fake001"
	sig := gateway.SignPayment(created.GatewayOrderID, paymentID, testGatewayConfig.KeySecret)

	resp, err := svc.VerifyPayment(testCtx(), created.GatewayOrderID, paymentID, sig)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, created.ID, resp.OrderID)

	order := orderByID(t, db, uuid.MustParse(created.ID))
	assert.Equal(t, db_models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusProcessing, order.Status)

	assert.Equal(t, int64(3), productStock(t, db, rice.ID))

	var txn db_models.Transaction
	require.NoError(t, db.First(&txn, "order_id = ? AND type = ?", order.ID, db_models.TxnTypePayment).Error)
	assert.Equal(t, db_models.TxnStatusCompleted, txn.Status)
	assert.Equal(t, paymentID, txn.Reference)

	// The cart is closed once the payment lands.
	var openCarts int64
	require.NoError(t, db.Model(&db_models.Cart{}).
		Where("user_id = ? AND status = ?", user.ID, db_models.CartStatusOpen).
		Count(&openCarts).Error)
	assert.Zero(t, openCarts)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 2})

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	resp, err := svc.VerifyPayment(testCtx(), created.GatewayOrderID, "pay_fake001", "deadbeef")
	require.NoError(t, err)
	assert.False(t, resp.Success)

	order := orderByID(t, db, uuid.MustParse(created.ID))
	assert.Equal(t, db_models.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusCancelled, order.Status)

	// Stock was never decremented for the unverified order.
	assert.Equal(t, int64(5), productStock(t, db, rice.ID))

	var txn db_models.Transaction
	require.NoError(t, db.First(&txn, "order_id = ?", order.ID).Error)
	assert.Equal(t, db_models.TxnStatusFailed, txn.Status)
}

func TestVerifyPaymentStockRaceFails(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 2)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 2})

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	// Someone else bought the stock between order creation and verify.
	require.NoError(t, db.Model(&db_models.Product{}).
		Where("id = ?", rice.ID).Update("stock", 1).Error)

	paymentID := "pay_fake001"
	sig := gateway.SignPayment(created.GatewayOrderID, paymentID, testGatewayConfig.KeySecret)

	_, err = svc.VerifyPayment(testCtx(), created.GatewayOrderID, paymentID, sig)
	var stockErr *utils.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// The finalize transaction rolled back entirely.
	order := orderByID(t, db, uuid.MustParse(created.ID))
	assert.Equal(t, db_models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(1), productStock(t, db, rice.ID))
}

func TestVerifyPaymentReplayIsRejected(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 2})

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	paymentID := "pay_fake001"
	sig := gateway.SignPayment(created.GatewayOrderID, paymentID, testGatewayConfig.KeySecret)

	_, err = svc.VerifyPayment(testCtx(), created.GatewayOrderID, paymentID, sig)
	require.NoError(t, err)
	require.Equal(t, int64(3), productStock(t, db, rice.ID))

	// The user starts shopping again before the replay arrives.
	newCart := seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 1})

	_, err = svc.VerifyPayment(testCtx(), created.GatewayOrderID, paymentID, sig)
	assert.ErrorIs(t, err, utils.ErrPaymentProcessed)

	// Stock is decremented exactly once and the new cart survives.
	assert.Equal(t, int64(3), productStock(t, db, rice.ID))
	var cart db_models.Cart
	require.NoError(t, db.First(&cart, "id = ?", newCart.ID).Error)
	assert.Equal(t, db_models.CartStatusOpen, cart.Status)
	var lines int64
	require.NoError(t, db.Model(&db_models.CartItem{}).
		Where("cart_id = ?", newCart.ID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestRecordFailure(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)
	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{rice.ID: 1})

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RecordFailure(testCtx(), created.GatewayOrderID))

	order := orderByID(t, db, uuid.MustParse(created.ID))
	assert.Equal(t, db_models.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusCancelled, order.Status)

	// Repeating the callback is harmless.
	require.NoError(t, svc.RecordFailure(testCtx(), created.GatewayOrderID))
}

func TestRecordFailureAfterVerifyIsIgnored(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 2)
	require.Equal(t, int64(3), productStock(t, db, rice.ID))

	// A stale failure callback after a successful verify changes nothing.
	require.NoError(t, svc.RecordFailure(testCtx(), order.TrackingNumber))

	updated := orderByID(t, db, order.ID)
	assert.Equal(t, db_models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusProcessing, updated.Status)
	assert.Equal(t, int64(3), productStock(t, db, rice.ID))

	var txn db_models.Transaction
	require.NoError(t, db.First(&txn, "order_id = ? AND type = ?", order.ID, db_models.TxnTypePayment).Error)
	assert.Equal(t, db_models.TxnStatusCompleted, txn.Status)
}

// paidOnlineOrder drives the full create+verify flow and returns the paid
// order.
func paidOnlineOrder(t *testing.T, db *gorm.DB, svc PaymentServiceInterface, user *db_models.User, productID uuid.UUID, qty int64) *db_models.Order {
	t.Helper()

	seedOpenCart(t, db, user.ID, map[uuid.UUID]int64{productID: qty})
	created, err := svc.CreatePaymentOrder(testCtx(), user, nil)
	require.NoError(t, err)

	paymentID := fmt.Sprintf("pay_%s", created.GatewayOrderID)
	sig := gateway.SignPayment(created.GatewayOrderID, paymentID, testGatewayConfig.KeySecret)
	resp, err := svc.VerifyPayment(testCtx(), created.GatewayOrderID, paymentID, sig)
	require.NoError(t, err)
	require.True(t, resp.Success)

	return orderByID(t, db, uuid.MustParse(created.ID))
}

func TestRefundFull(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	gw := &fakeGateway{}
	svc := newPaymentServiceForTest(t, db, gw)
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 2)
	require.Equal(t, int64(3), productStock(t, db, rice.ID))

	resp, err := svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "changed my mind", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), resp.AmountCents)
	assert.Equal(t, "processed", resp.Status)

	require.Len(t, gw.refunds, 1)
	assert.Equal(t, fmt.Sprintf("pay_%s", order.TrackingNumber), gw.refunds[0].PaymentID)
	assert.Equal(t, int64(20000), gw.refunds[0].AmountCents)

	updated := orderByID(t, db, order.ID)
	assert.Equal(t, db_models.PaymentStatusRefunded, updated.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusCancelled, updated.Status)

	assert.Equal(t, int64(5), productStock(t, db, rice.ID))

	var refundTxn db_models.Transaction
	require.NoError(t, db.First(&refundTxn, "order_id = ? AND type = ?", order.ID, db_models.TxnTypeRefund).Error)
	assert.Equal(t, db_models.TxnStatusCompleted, refundTxn.Status)
	assert.Equal(t, resp.ID, refundTxn.Reference)
}

func TestRefundPartialKeepsPaid(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 2)

	partial := int64(5000)
	resp, err := svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "", &partial)
	require.NoError(t, err)
	assert.Equal(t, partial, resp.AmountCents)

	updated := orderByID(t, db, order.ID)
	assert.Equal(t, db_models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, db_models.OrderStatusCancelled, updated.Status)
}

func TestRefundValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	stranger := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	gw := &fakeGateway{}
	svc := newPaymentServiceForTest(t, db, gw)
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 2)

	_, err := svc.Refund(testCtx(), uuid.New(), user.ID, db_models.RoleCustomer, "", nil)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)

	_, err = svc.Refund(testCtx(), order.ID, stranger.ID, db_models.RoleCustomer, "", nil)
	assert.ErrorIs(t, err, utils.ErrNotOwner)

	tooMuch := int64(99999)
	_, err = svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "", &tooMuch)
	assert.ErrorIs(t, err, utils.ErrRefundTooLarge)

	// Admins can refund other users' orders.
	_, err = svc.Refund(testCtx(), order.ID, stranger.ID, db_models.RoleAdmin, "", nil)
	require.NoError(t, err)

	// Already refunded.
	_, err = svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "", nil)
	assert.ErrorIs(t, err, utils.ErrOrderNotRefundable)
}

func TestRefundStatusListsRefunds(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	svc := newPaymentServiceForTest(t, db, &fakeGateway{})
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 1)

	refunds, err := svc.RefundStatus(testCtx(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, refunds)

	_, err = svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "", nil)
	require.NoError(t, err)

	refunds, err = svc.RefundStatus(testCtx(), order.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, int64(10000), refunds[0].AmountCents)
	assert.Equal(t, string(db_models.TxnStatusCompleted), refunds[0].Status)
}

func webhookRequest(t *testing.T, svc PaymentServiceInterface, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(body))
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	svc.HandleWebhook(c)
	return w
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentServiceForTest(t, db, &fakeGateway{})

	body := []byte(`{"event":"refund.processed"}`)
	w := webhookRequest(t, svc, body, map[string]string{
		"X-Razorpay-Signature": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRefundProcessed(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rice := seedProduct(t, db, "Rice", 10000, 5)

	svc := newPaymentServiceForTest(t, db, &fakeGateway{refundStatus: "pending"})
	order := paidOnlineOrder(t, db, svc, user, rice.ID, 1)

	resp, err := svc.Refund(testCtx(), order.ID, user.ID, db_models.RoleCustomer, "", nil)
	require.NoError(t, err)

	var refundTxn db_models.Transaction
	require.NoError(t, db.First(&refundTxn, "order_id = ? AND type = ?", order.ID, db_models.TxnTypeRefund).Error)
	require.Equal(t, db_models.TxnStatusPending, refundTxn.Status)

	body := []byte(fmt.Sprintf(
		`{"event":"refund.processed","payload":{"refund":{"entity":{"id":%q}}}}`, resp.ID))
	w := webhookRequest(t, svc, body, map[string]string{
		"X-Razorpay-Signature": gateway.SignBody(body, testGatewayConfig.WebhookSecret),
		"X-Razorpay-Event-Id":  "evt_001",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&refundTxn, "order_id = ? AND type = ?", order.ID, db_models.TxnTypeRefund).Error)
	assert.Equal(t, db_models.TxnStatusCompleted, refundTxn.Status)

	// Same delivery replayed is acknowledged without reprocessing.
	w = webhookRequest(t, svc, body, map[string]string{
		"X-Razorpay-Signature": gateway.SignBody(body, testGatewayConfig.WebhookSecret),
		"X-Razorpay-Event-Id":  "evt_001",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
}

func TestWebhookRetriesAfterFailedUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentServiceForTest(t, db, &fakeGateway{})

	// Break the database so the refund update cannot land.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	body := []byte(`{"event":"refund.processed","payload":{"refund":{"entity":{"id":"rfnd_x"}}}}`)
	headers := map[string]string{
		"X-Razorpay-Signature": gateway.SignBody(body, testGatewayConfig.WebhookSecret),
		"X-Razorpay-Event-Id":  "evt_retry",
	}

	w := webhookRequest(t, svc, body, headers)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The event id was not recorded, so the gateway's retry is processed
	// again rather than swallowed as a duplicate.
	w = webhookRequest(t, svc, body, headers)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "duplicate")
}
