package promo

import (
	"testing"
	"time"

	"mawid/models"
)

func validPromoForm() promoForm {
	return promoForm{
		Code:          "SUMMER10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now(),
		ValidUntil:    time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestValidateFormAccepts(t *testing.T) {
	if msg := validateForm(validPromoForm()); msg != "" {
		t.Fatalf("valid form rejected: %s", msg)
	}
}

func TestValidateFormPercentageBounds(t *testing.T) {
	form := validPromoForm()
	form.DiscountValue = 0
	if msg := validateForm(form); msg != "Percentage discount must be between 1 and 100" {
		t.Errorf("zero percent: got %q", msg)
	}
	form.DiscountValue = 101
	if msg := validateForm(form); msg != "Percentage discount must be between 1 and 100" {
		t.Errorf("over 100 percent: got %q", msg)
	}
}

func TestValidateFormFixedMustBePositive(t *testing.T) {
	form := validPromoForm()
	form.DiscountType = models.DiscountFixed
	form.DiscountValue = 0
	if msg := validateForm(form); msg != "Fixed discount must be greater than 0" {
		t.Errorf("got %q", msg)
	}
}

func TestValidateFormWindowOrdering(t *testing.T) {
	form := validPromoForm()
	form.ValidUntil = form.ValidFrom.Add(-time.Hour)
	if msg := validateForm(form); msg != "Valid until date must be after valid from date" {
		t.Errorf("got %q", msg)
	}
}

func TestValidateFormUnknownType(t *testing.T) {
	form := validPromoForm()
	form.DiscountType = "loyalty"
	if msg := validateForm(form); msg != "Invalid discount type" {
		t.Errorf("got %q", msg)
	}
}

func TestUsageFor(t *testing.T) {
	promo := models.PromoCode{UsedBy: []models.PromoUsage{
		{UserID: "u1", UsageCount: 3},
		{UserID: "u2", UsageCount: 1},
	}}
	if got := usageFor(promo, "u1"); got != 3 {
		t.Errorf("u1: got %d", got)
	}
	if got := usageFor(promo, "u9"); got != 0 {
		t.Errorf("unknown user: got %d", got)
	}
}
