// Package promo manages provider-scoped discount codes and their usage
// accounting.
package promo

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type promoForm struct {
	Code          string    `json:"code"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	UsageLimit    int       `json:"usageLimit"`
	UsagePerUser  int       `json:"usagePerUser"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidUntil    time.Time `json:"validUntil"`
}

func validateForm(form promoForm) string {
	if form.Code == "" || form.DiscountType == "" {
		return "Please fill in all fields"
	}
	switch form.DiscountType {
	case models.DiscountPercentage:
		if form.DiscountValue < 1 || form.DiscountValue > 100 {
			return "Percentage discount must be between 1 and 100"
		}
	case models.DiscountFixed:
		if form.DiscountValue <= 0 {
			return "Fixed discount must be greater than 0"
		}
	default:
		return "Invalid discount type"
	}
	if !form.ValidUntil.After(form.ValidFrom) {
		return "Valid until date must be after valid from date"
	}
	return ""
}

// Create registers a new promo code for the calling provider. Codes are
// stored uppercase and are unique across the platform.
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var form promoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}
	if msg := validateForm(form); msg != "" {
		utils.Fail(w, msg)
		return
	}

	code := models.PromoCode{
		PromoID:       "promo" + utils.GenerateRandomDigitString(12),
		Code:          strings.ToUpper(form.Code),
		ProviderID:    providerID,
		DiscountType:  form.DiscountType,
		DiscountValue: form.DiscountValue,
		UsageLimit:    form.UsageLimit,
		UsagePerUser:  form.UsagePerUser,
		ValidFrom:     form.ValidFrom,
		ValidUntil:    form.ValidUntil,
		UsedBy:        []models.PromoUsage{},
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if code.UsagePerUser <= 0 {
		code.UsagePerUser = 1
	}

	if _, err := db.PromoCodeCollection.InsertOne(r.Context(), code); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(w, "Promo code already exists")
			return
		}
		log.Printf("promo: create: %v", err)
		utils.Fail(w, "Could not create promo code")
		return
	}
	utils.Success(w, utils.M{"message": "Promo code created successfully"})
}

// GetProviderCodes lists the calling provider's promo codes, newest first.
func GetProviderCodes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	cursor, err := db.PromoCodeCollection.Find(r.Context(), bson.M{"providerid": providerID},
		options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}}))
	if err != nil {
		log.Printf("promo: list: %v", err)
		utils.Fail(w, "Could not fetch promo codes")
		return
	}
	codes := []models.PromoCode{}
	if err := cursor.All(r.Context(), &codes); err != nil {
		utils.Fail(w, "Could not fetch promo codes")
		return
	}
	utils.Success(w, utils.M{"promoCodes": codes})
}

// lookup finds a live code for a provider: active and inside its validity
// window.
func lookup(ctx context.Context, code, providerID string) (models.PromoCode, error) {
	now := time.Now()
	var promo models.PromoCode
	err := db.PromoCodeCollection.FindOne(ctx, bson.M{
		"code":       strings.ToUpper(code),
		"providerid": providerID,
		"isactive":   true,
		"validfrom":  bson.M{"$lte": now},
		"validuntil": bson.M{"$gte": now},
	}).Decode(&promo)
	return promo, err
}

func usageFor(promo models.PromoCode, userID string) int {
	for _, u := range promo.UsedBy {
		if u.UserID == userID {
			return u.UsageCount
		}
	}
	return 0
}

// ErrLimitExceeded and ErrUserLimitReached distinguish limit failures from
// an unknown or expired code.
var (
	ErrLimitExceeded    = errors.New("promo code usage limit exceeded")
	ErrUserLimitReached = errors.New("promo code user limit reached")
)

// Apply discounts price with the named code and records the usage. Returns
// mongo.ErrNoDocuments when the code does not exist or is outside its
// window.
func Apply(ctx context.Context, code, providerID, userID string, price float64) (float64, error) {
	promo, err := lookup(ctx, code, providerID)
	if err != nil {
		return price, err
	}

	if promo.UsageLimit > 0 && promo.TotalUsed >= promo.UsageLimit {
		return price, ErrLimitExceeded
	}
	if usageFor(promo, userID) >= promo.UsagePerUser {
		return price, ErrUserLimitReached
	}

	now := time.Now()
	filter := bson.M{"promoid": promo.PromoID, "usedby.userid": userID}
	update := bson.M{
		"$inc": bson.M{"totalused": 1, "usedby.$.usagecount": 1},
		"$set": bson.M{"usedby.$.lastused": now},
	}
	res, err := db.PromoCodeCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return price, err
	}
	if res.MatchedCount == 0 {
		_, err = db.PromoCodeCollection.UpdateOne(ctx,
			bson.M{"promoid": promo.PromoID},
			bson.M{
				"$inc":  bson.M{"totalused": 1},
				"$push": bson.M{"usedby": models.PromoUsage{UserID: userID, UsageCount: 1, LastUsed: now}},
			})
		if err != nil {
			return price, err
		}
	}

	return promo.Discount(price), nil
}

// Quote prices a code without consuming a usage. Same failure modes as
// Apply.
func Quote(ctx context.Context, code, providerID, userID string, price float64) (float64, error) {
	promo, err := lookup(ctx, code, providerID)
	if err != nil {
		return price, err
	}
	if promo.UsageLimit > 0 && promo.TotalUsed >= promo.UsageLimit {
		return price, ErrLimitExceeded
	}
	if usageFor(promo, userID) >= promo.UsagePerUser {
		return price, ErrUserLimitReached
	}
	return promo.Discount(price), nil
}

type validateRequest struct {
	Code       string  `json:"code"`
	ProviderID string  `json:"providerid"`
	UserID     string  `json:"userId"`
	Price      float64 `json:"price"`
}

// Validate checks a code without consuming a usage, returning the price a
// buyer would pay.
func Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	promo, err := lookup(r.Context(), req.Code, req.ProviderID)
	if err != nil {
		utils.Fail(w, "Invalid or expired promo code")
		return
	}
	if promo.UsageLimit > 0 && promo.TotalUsed >= promo.UsageLimit {
		utils.Fail(w, "Promo code usage limit exceeded")
		return
	}
	if req.UserID != "" && usageFor(promo, req.UserID) >= promo.UsagePerUser {
		utils.Fail(w, "You have reached the usage limit for this promo code")
		return
	}

	utils.Success(w, utils.M{
		"discountType":  promo.DiscountType,
		"discountValue": promo.DiscountValue,
		"finalPrice":    promo.Discount(req.Price),
	})
}

type updateForm struct {
	DiscountValue *float64   `json:"discountValue"`
	UsageLimit    *int       `json:"usageLimit"`
	UsagePerUser  *int       `json:"usagePerUser"`
	ValidFrom     *time.Time `json:"validFrom"`
	ValidUntil    *time.Time `json:"validUntil"`
	IsActive      *bool      `json:"isActive"`
}

// Update edits a code owned by the calling provider. The code string
// itself is immutable.
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)
	promoID := ps.ByName("promoId")

	var form updateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()
	var promo models.PromoCode
	if err := db.PromoCodeCollection.FindOne(ctx, bson.M{"promoid": promoID, "providerid": providerID}).Decode(&promo); err != nil {
		utils.Fail(w, "Promo code not found or unauthorized")
		return
	}

	update := bson.M{}
	if form.DiscountValue != nil {
		update["discountvalue"] = *form.DiscountValue
	}
	if form.UsageLimit != nil {
		update["usagelimit"] = *form.UsageLimit
	}
	if form.UsagePerUser != nil {
		update["usageperuser"] = *form.UsagePerUser
	}
	validFrom := promo.ValidFrom
	validUntil := promo.ValidUntil
	if form.ValidFrom != nil {
		validFrom = *form.ValidFrom
		update["validfrom"] = validFrom
	}
	if form.ValidUntil != nil {
		validUntil = *form.ValidUntil
		update["validuntil"] = validUntil
	}
	if !validUntil.After(validFrom) {
		utils.Fail(w, "Valid until date must be after valid from date")
		return
	}
	if form.IsActive != nil {
		update["isactive"] = *form.IsActive
	}
	if len(update) == 0 {
		utils.Fail(w, "Nothing to update")
		return
	}

	if _, err := db.PromoCodeCollection.UpdateOne(ctx, bson.M{"promoid": promoID}, bson.M{"$set": update}); err != nil {
		log.Printf("promo: update: %v", err)
		utils.Fail(w, "Could not update promo code")
		return
	}
	utils.Success(w, utils.M{"message": "Promo code updated successfully"})
}

// Delete removes a code owned by the calling provider.
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)
	promoID := ps.ByName("promoId")

	res, err := db.PromoCodeCollection.DeleteOne(r.Context(), bson.M{"promoid": promoID, "providerid": providerID})
	if err != nil {
		log.Printf("promo: delete: %v", err)
		utils.Fail(w, "Could not delete promo code")
		return
	}
	if res.DeletedCount == 0 {
		utils.Fail(w, "Promo code not found or unauthorized")
		return
	}
	utils.Success(w, utils.M{"message": "Promo code deleted successfully"})
}
