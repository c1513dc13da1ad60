package gateway

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"

	"mawid/globals"
)

const payzoneURL = "https://sandbox.payzone.ma/payment"

// Payzone posts a signed form to the hosted payment page. The signature is
// sha256(merchantID + itemID + amount + secret) hex-encoded, and the same
// signature must come back on the verification callback.
type Payzone struct {
	merchantID string
	secret     string
}

func NewPayzone() *Payzone {
	return &Payzone{
		merchantID: globals.Env("PAYZONE_MERCHANT_ID", ""),
		secret:     globals.Env("PAYZONE_SECRET", ""),
	}
}

func (p *Payzone) Name() string { return "payzone" }

func (p *Payzone) sign(itemID string, amount float64) string {
	sum := sha256.Sum256([]byte(p.merchantID + itemID + strconv.FormatFloat(amount, 'f', -1, 64) + p.secret))
	return hex.EncodeToString(sum[:])
}

func (p *Payzone) CreateCheckout(_ context.Context, item CheckoutItem) (Checkout, error) {
	if item.Amount <= 0 {
		return Checkout{}, fmt.Errorf("payzone: non-positive amount for %s %s", item.Kind, item.ID)
	}

	returnURL := item.Origin + item.ReturnURL + "?provider=payzone&success=true&" + item.Kind + "Id=" + item.ID

	return Checkout{FormData: map[string]any{
		"url": payzoneURL,
		"data": map[string]any{
			"merchant_id": p.merchantID,
			"item_id":     item.ID,
			"amount":      item.Amount,
			"return_url":  returnURL,
			"signature":   p.sign(item.ID, item.Amount),
		},
	}}, nil
}

func (p *Payzone) Verify(_ context.Context, req VerifyRequest) (string, bool, error) {
	expected := p.sign(req.ItemID, req.Amount)
	ok := subtle.ConstantTimeCompare([]byte(expected), []byte(req.Signature)) == 1
	return req.ItemID, ok, nil
}
