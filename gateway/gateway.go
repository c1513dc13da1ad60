// Package gateway abstracts the supported payment processors behind one
// interface. Checkout shapes differ per processor, so Checkout carries
// the union and handlers serialize only the populated part.
package gateway

import (
	"context"
	"errors"
)

// CheckoutItem is the thing being paid for, independent of processor.
type CheckoutItem struct {
	Kind      string  // "appointment", "slot" or "event"
	ID        string
	Name      string  // display label on the payment page
	Amount    float64 // in currency units, not minor units
	Origin    string  // frontend origin for return URLs
	ReturnURL string  // verification page path on the frontend
}

// Checkout is a started payment. Exactly one of SessionURL, Order or
// FormData is set depending on the processor.
type Checkout struct {
	SessionURL string         `json:"session_url,omitempty"`
	Order      map[string]any `json:"order,omitempty"`
	FormData   map[string]any `json:"formData,omitempty"`
}

// VerifyRequest carries the processor callback fields. OrderID is the
// processor-side reference; Success mirrors redirect query flags for
// processors without a fetchable order status.
type VerifyRequest struct {
	ItemID    string
	OrderID   string
	Success   bool
	Signature string
	Amount    float64
}

// Gateway is one payment processor.
type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, item CheckoutItem) (Checkout, error)
	// Verify reports whether the payment completed. The returned item ID
	// identifies what was paid for when the processor carries it (order
	// receipt); otherwise it echoes the request's item ID.
	Verify(ctx context.Context, req VerifyRequest) (string, bool, error)
}

var ErrUnknownGateway = errors.New("unknown payment gateway")

// ByName returns the processor for a route segment.
func ByName(name string) (Gateway, error) {
	switch name {
	case "stripe":
		return NewStripe(), nil
	case "razorpay":
		return NewRazorpay(), nil
	case "payzone":
		return NewPayzone(), nil
	}
	return nil, ErrUnknownGateway
}
