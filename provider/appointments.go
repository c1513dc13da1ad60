package provider

import (
	"context"
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

func loadMerged(ctx context.Context, providerID string) ([]models.Appointment, error) {
	cursor, err := db.AppointmentCollection.Find(ctx, bson.M{"providerid": providerID})
	if err != nil {
		return nil, err
	}
	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}

	cursor, err = db.CalendarSlotCollection.Find(ctx, bson.M{"providerid": providerID, "isbooked": true})
	if err != nil {
		return nil, err
	}
	slots := []models.CalendarSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}

	return reconcile.Merge(appointments, slots), nil
}

// ListAppointments returns the provider's bookings from both sources in the
// legacy appointment shape, newest first.
func ListAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	merged, err := loadMerged(r.Context(), providerID)
	if err != nil {
		log.Printf("provider: list appointments: %v", err)
		utils.Fail(w, "Could not fetch appointments")
		return
	}
	utils.Success(w, utils.M{"appointments": reconcile.Latest(merged, len(merged))})
}

type appointmentRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// CompleteAppointment marks a booking as completed. The identifier may name
// a legacy appointment or a calendar slot booking; both are tried.
func CompleteAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	var appointment models.Appointment
	err := db.AppointmentCollection.FindOne(ctx, bson.M{"appointmentid": req.AppointmentID, "providerid": providerID}).Decode(&appointment)
	if err == nil {
		if appointment.Cancelled {
			utils.Fail(w, "Cannot complete a cancelled booking")
			return
		}
		if _, err := db.AppointmentCollection.UpdateOne(ctx,
			bson.M{"appointmentid": req.AppointmentID},
			bson.M{"$set": bson.M{"iscompleted": true}}); err != nil {
			log.Printf("provider: complete appointment: %v", err)
			utils.Fail(w, "Could not complete appointment")
			return
		}
		utils.Success(w, utils.M{"message": "Appointment completed"})
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("provider: complete appointment: %v", err)
		utils.Fail(w, "Could not complete appointment")
		return
	}

	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.AppointmentID, "providerid": providerID}).Decode(&slot); err != nil {
		utils.Fail(w, "Appointment not found")
		return
	}
	if !slot.IsBooked {
		utils.Fail(w, "Slot is not booked")
		return
	}
	if slot.Cancelled {
		utils.Fail(w, "Cannot complete a cancelled booking")
		return
	}
	if err := calendar.CompleteSlot(ctx, slot.SlotID, providerID); err != nil {
		log.Printf("provider: complete slot: %v", err)
		utils.Fail(w, "Could not complete appointment")
		return
	}
	utils.Success(w, utils.M{"message": "Appointment completed"})
}

// CancelAppointment cancels a booking on either representation and frees
// the reserved time.
func CancelAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	var appointment models.Appointment
	err := db.AppointmentCollection.FindOne(ctx, bson.M{"appointmentid": req.AppointmentID, "providerid": providerID}).Decode(&appointment)
	if err == nil {
		if appointment.Cancelled {
			utils.Fail(w, "Appointment already cancelled")
			return
		}
		if _, err := db.AppointmentCollection.UpdateOne(ctx,
			bson.M{"appointmentid": req.AppointmentID},
			bson.M{"$set": bson.M{"cancelled": true}}); err != nil {
			log.Printf("provider: cancel appointment: %v", err)
			utils.Fail(w, "Could not cancel appointment")
			return
		}
		user.ReleaseLegacySlot(ctx, providerID, appointment.SlotDate, appointment.SlotTime)
		utils.Success(w, utils.M{"message": "Appointment cancelled"})
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("provider: cancel appointment: %v", err)
		utils.Fail(w, "Could not cancel appointment")
		return
	}

	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.AppointmentID, "providerid": providerID}).Decode(&slot); err != nil {
		utils.Fail(w, "Appointment not found")
		return
	}
	if err := calendar.CancelSlot(ctx, slot.SlotID, providerID); err != nil {
		log.Printf("provider: cancel slot: %v", err)
		utils.Fail(w, "Could not cancel appointment")
		return
	}
	utils.Success(w, utils.M{"message": "Appointment cancelled"})
}
