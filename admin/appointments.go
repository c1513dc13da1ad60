package admin

import (
	"encoding/json"
	"log"
	"net/http"

	"mawid/calendar"
	"mawid/db"
	"mawid/models"
	"mawid/reconcile"
	"mawid/user"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListAppointments returns every booking on the platform, both
// representations merged, newest first.
func ListAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	cursor, err := db.AppointmentCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("admin: list appointments: %v", err)
		utils.Fail(w, "Could not fetch appointments")
		return
	}
	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		utils.Fail(w, "Could not fetch appointments")
		return
	}

	cursor, err = db.CalendarSlotCollection.Find(ctx, bson.M{"isbooked": true})
	if err != nil {
		log.Printf("admin: list slot bookings: %v", err)
		utils.Fail(w, "Could not fetch appointments")
		return
	}
	slots := []models.CalendarSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		utils.Fail(w, "Could not fetch appointments")
		return
	}

	merged := reconcile.Merge(appointments, slots)
	utils.Success(w, utils.M{"appointments": reconcile.Latest(merged, len(merged))})
}

type cancelRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// CancelAppointment cancels any booking on the platform and frees the
// reserved time.
func CancelAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	var appointment models.Appointment
	err := db.AppointmentCollection.FindOne(ctx, bson.M{"appointmentid": req.AppointmentID}).Decode(&appointment)
	if err == nil {
		if appointment.Cancelled {
			utils.Fail(w, "Appointment already cancelled")
			return
		}
		if _, err := db.AppointmentCollection.UpdateOne(ctx,
			bson.M{"appointmentid": req.AppointmentID},
			bson.M{"$set": bson.M{"cancelled": true}}); err != nil {
			log.Printf("admin: cancel appointment: %v", err)
			utils.Fail(w, "Could not cancel appointment")
			return
		}
		user.ReleaseLegacySlot(ctx, appointment.ProviderID, appointment.SlotDate, appointment.SlotTime)
		utils.Success(w, utils.M{"message": "Appointment cancelled"})
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("admin: cancel appointment: %v", err)
		utils.Fail(w, "Could not cancel appointment")
		return
	}

	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.AppointmentID}).Decode(&slot); err != nil {
		utils.Fail(w, "Appointment not found")
		return
	}
	if err := calendar.CancelSlot(ctx, slot.SlotID, slot.ProviderID); err != nil {
		log.Printf("admin: cancel slot: %v", err)
		utils.Fail(w, "Could not cancel appointment")
		return
	}
	utils.Success(w, utils.M{"message": "Appointment cancelled"})
}
