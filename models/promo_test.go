package models

import "testing"

func TestDiscountFixed(t *testing.T) {
	p := PromoCode{DiscountType: DiscountFixed, DiscountValue: 50}
	if got := p.Discount(200); got != 150 {
		t.Errorf("got %v, want 150", got)
	}
	// Clamps at zero rather than going negative.
	if got := p.Discount(30); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestDiscountPercentage(t *testing.T) {
	p := PromoCode{DiscountType: DiscountPercentage, DiscountValue: 25}
	if got := p.Discount(200); got != 150 {
		t.Errorf("got %v, want 150", got)
	}
	p.DiscountValue = 100
	if got := p.Discount(200); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestDiscountUnknownType(t *testing.T) {
	p := PromoCode{DiscountType: "loyalty", DiscountValue: 50}
	if got := p.Discount(200); got != 200 {
		t.Errorf("unknown type must not discount: got %v", got)
	}
}
