package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mawid/globals"
)

const razorpayBase = "https://api.razorpay.com/v1"

// Razorpay talks to the orders REST API directly with basic auth.
type Razorpay struct {
	keyID     string
	keySecret string
	currency  string
	client    *http.Client
}

func NewRazorpay() *Razorpay {
	return &Razorpay{
		keyID:     globals.Env("RAZORPAY_KEY_ID", ""),
		keySecret: globals.Env("RAZORPAY_KEY_SECRET", ""),
		currency:  globals.Env("CURRENCY", "mad"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (rz *Razorpay) Name() string { return "razorpay" }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (rz *Razorpay) CreateCheckout(ctx context.Context, item CheckoutItem) (Checkout, error) {
	if item.Amount <= 0 {
		return Checkout{}, fmt.Errorf("razorpay: non-positive amount for %s %s", item.Kind, item.ID)
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   int64(item.Amount * 100), // minor units
		"currency": rz.currency,
		"receipt":  item.ID,
	})
	if err != nil {
		return Checkout{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, razorpayBase+"/orders", bytes.NewReader(payload))
	if err != nil {
		return Checkout{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(rz.keyID, rz.keySecret)

	resp, err := rz.client.Do(req)
	if err != nil {
		return Checkout{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Checkout{}, fmt.Errorf("razorpay: create order: status %d", resp.StatusCode)
	}

	var order razorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Checkout{}, err
	}

	return Checkout{Order: map[string]any{
		"id":       order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"receipt":  order.Receipt,
	}}, nil
}

func (rz *Razorpay) Verify(ctx context.Context, vr VerifyRequest) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, razorpayBase+"/orders/"+vr.OrderID, nil)
	if err != nil {
		return "", false, err
	}
	req.SetBasicAuth(rz.keyID, rz.keySecret)

	resp, err := rz.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("razorpay: fetch order: status %d", resp.StatusCode)
	}

	var order razorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", false, err
	}
	return order.Receipt, order.Status == "paid", nil
}
