package models

import "time"

const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

type PromoUsage struct {
	UserID     string    `json:"userId" bson:"userid"`
	UsageCount int       `json:"usageCount" bson:"usagecount"`
	LastUsed   time.Time `json:"lastUsed" bson:"lastused"`
}

type PromoCode struct {
	PromoID       string       `json:"promoid" bson:"promoid"`
	Code          string       `json:"code" bson:"code"` // stored uppercase
	ProviderID    string       `json:"providerid" bson:"providerid"`
	DiscountType  string       `json:"discountType" bson:"discounttype"`
	DiscountValue float64      `json:"discountValue" bson:"discountvalue"`
	UsageLimit    int          `json:"usageLimit" bson:"usagelimit"` // 0 = unlimited
	UsagePerUser  int          `json:"usagePerUser" bson:"usageperuser"`
	ValidFrom     time.Time    `json:"validFrom" bson:"validfrom"`
	ValidUntil    time.Time    `json:"validUntil" bson:"validuntil"`
	UsedBy        []PromoUsage `json:"usedBy" bson:"usedby"`
	TotalUsed     int          `json:"totalUsed" bson:"totalused"`
	IsActive      bool         `json:"isActive" bson:"isactive"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdat"`
}

// Discount applies the promo to price, clamping at zero.
func (p PromoCode) Discount(price float64) float64 {
	switch p.DiscountType {
	case DiscountFixed:
		if price-p.DiscountValue < 0 {
			return 0
		}
		return price - p.DiscountValue
	case DiscountPercentage:
		return price * (1 - p.DiscountValue/100)
	}
	return price
}
