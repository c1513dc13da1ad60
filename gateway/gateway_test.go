package gateway

import (
	"context"
	"strings"
	"testing"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"stripe", "razorpay", "payzone"} {
		gw, err := ByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if gw.Name() != name {
			t.Errorf("got %s, want %s", gw.Name(), name)
		}
	}
	if _, err := ByName("paypal"); err != ErrUnknownGateway {
		t.Errorf("expected ErrUnknownGateway, got %v", err)
	}
}

func TestStripeCheckoutURL(t *testing.T) {
	s := NewStripe()
	c, err := s.CreateCheckout(context.Background(), CheckoutItem{
		Kind:      "appointment",
		ID:        "appt123",
		Amount:    200,
		Origin:    "http://localhost:5173",
		ReturnURL: "/verify-payment",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.SessionURL, "http://localhost:5173/verify-payment?") {
		t.Errorf("session url: %s", c.SessionURL)
	}
	if !strings.Contains(c.SessionURL, "appointmentId=appt123") {
		t.Errorf("missing item id: %s", c.SessionURL)
	}
	if !strings.Contains(c.SessionURL, "success=true") {
		t.Errorf("missing success flag: %s", c.SessionURL)
	}
}

func TestStripeRejectsZeroAmount(t *testing.T) {
	s := NewStripe()
	if _, err := s.CreateCheckout(context.Background(), CheckoutItem{Kind: "slot", ID: "s1"}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestPayzoneSignatureRoundTrip(t *testing.T) {
	p := &Payzone{merchantID: "m1", secret: "s3cret"}

	c, err := p.CreateCheckout(context.Background(), CheckoutItem{
		Kind:   "slot",
		ID:     "slot42",
		Amount: 150,
		Origin: "http://localhost:5173",
	})
	if err != nil {
		t.Fatal(err)
	}
	data, ok := c.FormData["data"].(map[string]any)
	if !ok {
		t.Fatal("missing form data")
	}
	sig, _ := data["signature"].(string)
	if sig == "" {
		t.Fatal("empty signature")
	}

	id, paid, err := p.Verify(context.Background(), VerifyRequest{
		ItemID:    "slot42",
		Amount:    150,
		Signature: sig,
	})
	if err != nil || !paid {
		t.Fatalf("verify failed: paid=%v err=%v", paid, err)
	}
	if id != "slot42" {
		t.Errorf("item id: got %s", id)
	}
}

func TestPayzoneVerifiesDiscountedAmount(t *testing.T) {
	// A checkout signed over a promo-discounted price verifies against that
	// same price, and never against the undiscounted one.
	p := &Payzone{merchantID: "m1", secret: "s3cret"}
	sig := p.sign("event7", 80) // 100 with a 20 percent promo applied

	_, paid, err := p.Verify(context.Background(), VerifyRequest{
		ItemID:    "event7",
		Amount:    80,
		Signature: sig,
	})
	if err != nil || !paid {
		t.Fatalf("discounted amount must verify: paid=%v err=%v", paid, err)
	}

	_, paid, err = p.Verify(context.Background(), VerifyRequest{
		ItemID:    "event7",
		Amount:    100,
		Signature: sig,
	})
	if err != nil {
		t.Fatal(err)
	}
	if paid {
		t.Fatal("full price must not verify a discounted signature")
	}
}

func TestPayzoneRejectsTamperedAmount(t *testing.T) {
	p := &Payzone{merchantID: "m1", secret: "s3cret"}
	sig := p.sign("slot42", 150)

	_, paid, err := p.Verify(context.Background(), VerifyRequest{
		ItemID:    "slot42",
		Amount:    1, // claimed amount differs from the signed one
		Signature: sig,
	})
	if err != nil {
		t.Fatal(err)
	}
	if paid {
		t.Fatal("tampered amount must not verify")
	}
}
