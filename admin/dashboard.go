package admin

import (
	"log"
	"net/http"

	"mawid/db"
	"mawid/models"
	"mawid/reconcile"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Dashboard summarizes the platform: provider and client counts plus total
// bookings from both representations and the five newest.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	providerCount, err := db.ProviderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("admin: dashboard providers: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}
	userCount, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("admin: dashboard users: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}

	cursor, err := db.AppointmentCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("admin: dashboard appointments: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}
	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		utils.Fail(w, "Could not load dashboard")
		return
	}

	cursor, err = db.CalendarSlotCollection.Find(ctx, bson.M{"isbooked": true})
	if err != nil {
		log.Printf("admin: dashboard slots: %v", err)
		utils.Fail(w, "Could not load dashboard")
		return
	}
	slots := []models.CalendarSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		utils.Fail(w, "Could not load dashboard")
		return
	}

	merged := reconcile.Merge(appointments, slots)
	utils.Success(w, utils.M{"dashData": utils.M{
		"providers":          providerCount,
		"clients":            userCount,
		"appointments":       len(merged),
		"latestAppointments": reconcile.Latest(merged, 5),
	}})
}
