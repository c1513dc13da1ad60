package provider

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/rdx"
	"mawid/reconcile"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const dashboardCacheTTL = 2 * time.Minute

// Dashboard aggregates earnings, booking and client counts across both
// booking representations plus event registrations. The result is cached
// briefly; the TTL bounds staleness.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	cacheKey := "dash:provider:" + providerID
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		var dash utils.M
		if json.Unmarshal([]byte(cached), &dash) == nil {
			utils.Success(w, utils.M{"dashData": dash})
			return
		}
	}

	ctx := r.Context()

	merged, err := loadMerged(ctx, providerID)
	if err != nil {
		log.Printf("provider: dashboard: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}

	cursor, err := db.EventCollection.Find(ctx, bson.M{"providerid": providerID})
	if err != nil {
		log.Printf("provider: dashboard events: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		utils.Fail(w, "Could not load dashboard")
		return
	}

	dash := utils.M{
		"earnings":           reconcile.Earnings(merged, events),
		"appointments":       len(merged),
		"clients":            reconcile.UniqueClients(merged, events),
		"latestAppointments": reconcile.Latest(merged, 5),
	}

	if data, err := json.Marshal(dash); err == nil {
		rdx.SetWithExpiry(cacheKey, string(data), dashboardCacheTTL)
	}
	utils.Success(w, utils.M{"dashData": dash})
}
