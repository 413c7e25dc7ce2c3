package razorpayrepo

import (
	"context"
	"math"
)

// Razorpay rejects orders under 100 paise (1 INR).
const MinAmountPaise int64 = 100

type CreateOrderReq struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Status      string
}

type Repo interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error)
	// VerifyPaymentSignature checks the checkout callback signature
	// HMAC-SHA256("<order_id>|<payment_id>", key_secret).
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature checks X-Razorpay-Signature over the raw body.
	VerifyWebhookSignature(signature string, rawBody []byte) bool
	KeyID() string
}

// ToPaise converts a rupee amount to paise, clamping to the gateway minimum.
func ToPaise(rupees float64) int64 {
	paise := int64(math.Round(rupees * 100))
	if paise < MinAmountPaise {
		return MinAmountPaise
	}
	return paise
}
