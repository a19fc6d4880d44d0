package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"grocart/pkg/utils"
)

// GatewayOrder is the provider-side order handle returned to the client so it
// can complete payment in the browser SDK.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

type RefundResult struct {
	ID     string
	Amount int64
	Status string
}

// Gateway wraps the payment provider's order-creation and refund APIs.
// Signature verification is purely local and lives on Config.
type Gateway interface {
	CreateOrder(amountCents int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
	Refund(paymentID string, amountCents int64, notes map[string]interface{}) (*RefundResult, error)
}

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(cfg Config) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
	}
}

func (g *razorpayGateway) CreateOrder(amountCents int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, &utils.GatewayError{Err: fmt.Errorf("gateway order response missing id")}
	}

	return &GatewayOrder{
		ID:       id,
		Amount:   amountCents,
		Currency: currency,
	}, nil
}

func (g *razorpayGateway) Refund(paymentID string, amountCents int64, notes map[string]interface{}) (*RefundResult, error) {
	data := map[string]interface{}{
		"notes": notes,
	}

	body, err := g.client.Payment.Refund(paymentID, int(amountCents), data, nil)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	id, _ := body["id"].(string)
	status, _ := body["status"].(string)
	if id == "" {
		return nil, &utils.GatewayError{Err: fmt.Errorf("gateway refund response missing id")}
	}

	return &RefundResult{
		ID:     id,
		Amount: amountCents,
		Status: status,
	}, nil
}

// Provider failures arrive as a JSON body {"error":{"description":...}};
// surface the description when it is there so the client sees the real
// reason, otherwise keep the raw error for the server log.
func wrapGatewayError(err error) error {
	var payload struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(err.Error()), &payload); jsonErr == nil {
		return &utils.GatewayError{Description: payload.Error.Description, Err: err}
	}
	return &utils.GatewayError{Err: err}
}

// VerifyPaymentSignature recomputes the HMAC-SHA256 of "orderID|paymentID"
// under the key secret and compares it to the signature the client relayed
// from the checkout SDK.
func (c Config) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return verifyHMAC([]byte(gatewayOrderID+"|"+gatewayPaymentID), signature, c.KeySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw request body under the webhook secret.
func (c Config) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(body, signature, c.WebhookSecret)
}

func verifyHMAC(message []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayment produces the signature the provider would send for a given
// order/payment pair.
func SignPayment(gatewayOrderID, gatewayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignBody produces the webhook signature for a raw body.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
