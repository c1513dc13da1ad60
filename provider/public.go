package provider

import (
	"log"
	"net/http"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ListProviders returns every provider with credentials stripped. Public.
func ListProviders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.ProviderCollection.Find(r.Context(), bson.M{})
	if err != nil {
		log.Printf("provider: list: %v", err)
		utils.Fail(w, "Could not fetch providers")
		return
	}
	providers := []models.Provider{}
	if err := cursor.All(r.Context(), &providers); err != nil {
		utils.Fail(w, "Could not fetch providers")
		return
	}

	// Password is never serialized; email is blanked on the public list.
	for i := range providers {
		providers[i].Email = ""
	}
	utils.Success(w, utils.M{"providers": providers})
}
