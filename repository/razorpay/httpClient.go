package razorpayrepo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/apple00071/onnrides-sub005/util/httpx"
)

const ordersURL = "https://api.razorpay.com/v1/orders"

type httpRepo struct {
	keyID         string
	keySecret     string
	webhookSecret string
	client        *http.Client
	baseURL       string
}

func NewHTTP(keyID, keySecret, webhookSecret string) Repo {
	return &httpRepo{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		client:        httpx.Client(),
		baseURL:       ordersURL,
	}
}

func (r *httpRepo) KeyID() string { return r.keyID }

func (r *httpRepo) CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error) {
	if req.AmountPaise < MinAmountPaise {
		req.AmountPaise = MinAmountPaise
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	body := map[string]any{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    req.Notes,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.keyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay create order failed: %s", resp.Status)
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("razorpay: empty order id")
	}

	return &Order{
		OrderID:     out.ID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Status:      out.Status,
	}, nil
}

func (r *httpRepo) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := hmacHex([]byte(r.keySecret), []byte(orderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (r *httpRepo) VerifyWebhookSignature(signature string, rawBody []byte) bool {
	if signature == "" || r.webhookSecret == "" {
		return false
	}
	expected := hmacHex([]byte(r.webhookSecret), rawBody)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hmacHex(key, msg []byte) string {
	m := hmac.New(sha256.New, key)
	m.Write(msg)
	return hex.EncodeToString(m.Sum(nil))
}
