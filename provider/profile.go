package provider

import (
	"encoding/json"
	"log"
	"net/http"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var provider models.Provider
	if err := db.ProviderCollection.FindOne(r.Context(), bson.M{"providerid": providerID}).Decode(&provider); err != nil {
		utils.Fail(w, "Provider not found")
		return
	}
	utils.Success(w, utils.M{"profileData": provider})
}

type profileUpdate struct {
	Fees      *float64        `json:"fees"`
	Address   *models.Address `json:"address"`
	Available *bool           `json:"available"`
	About     *string         `json:"about"`
}

// UpdateProfile lets a provider change the fields they own. Only fields
// present in the payload are written.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	update := bson.M{}
	if req.Fees != nil {
		if *req.Fees < 0 {
			utils.Fail(w, "Fees must not be negative")
			return
		}
		update["fees"] = *req.Fees
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if req.Available != nil {
		update["available"] = *req.Available
	}
	if req.About != nil {
		update["about"] = *req.About
	}
	if len(update) == 0 {
		utils.Fail(w, "Nothing to update")
		return
	}

	res, err := db.ProviderCollection.UpdateOne(r.Context(),
		bson.M{"providerid": providerID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("provider: update profile: %v", err)
		utils.Fail(w, "Could not update profile")
		return
	}
	if res.MatchedCount == 0 {
		utils.Fail(w, "Provider not found")
		return
	}
	utils.Success(w, utils.M{"message": "Profile updated"})
}
