package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/mq"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookRequest struct {
	ProviderID string `json:"docId"`
	SlotDate   string `json:"slotDate"`
	SlotTime   string `json:"slotTime"`
}

// BookAppointment books a legacy appointment against the provider's
// slots_booked map. The update filter requires the requested time to be
// absent from the date bucket, so two concurrent requests for the same
// slot cannot both succeed.
func BookAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}
	if req.ProviderID == "" || req.SlotDate == "" || req.SlotTime == "" {
		utils.Fail(w, "Missing booking details")
		return
	}

	ctx := r.Context()

	var provider models.Provider
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"providerid": req.ProviderID}).Decode(&provider); err != nil {
		utils.Fail(w, "Provider not found")
		return
	}
	if !provider.Available {
		utils.Fail(w, "Service not available")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.Fail(w, "User not found")
		return
	}

	bucket := "slots_booked." + req.SlotDate
	res, err := db.ProviderCollection.UpdateOne(ctx,
		bson.M{"providerid": req.ProviderID, bucket: bson.M{"$ne": req.SlotTime}},
		bson.M{"$push": bson.M{bucket: req.SlotTime}})
	if err != nil {
		log.Printf("user: book appointment: %v", err)
		utils.Fail(w, "Could not book appointment")
		return
	}
	if res.ModifiedCount == 0 {
		utils.Fail(w, "Slot not available")
		return
	}

	appointment := models.Appointment{
		AppointmentID: "appt" + utils.GenerateRandomDigitString(14),
		UserID:        userID,
		ProviderID:    req.ProviderID,
		SlotDate:      req.SlotDate,
		SlotTime:      req.SlotTime,
		UserData:      user.Public(),
		ProviderData:  provider.Public(),
		Amount:        provider.Fees,
		Date:          time.Now().UnixMilli(),
	}

	if _, err := db.AppointmentCollection.InsertOne(ctx, appointment); err != nil {
		// Roll the reservation back so the slot is not leaked.
		db.ProviderCollection.UpdateOne(ctx,
			bson.M{"providerid": req.ProviderID},
			bson.M{"$pull": bson.M{bucket: req.SlotTime}})
		log.Printf("user: insert appointment: %v", err)
		utils.Fail(w, "Could not book appointment")
		return
	}

	mq.Emit("appointment-booked", mq.Message{EntityType: "appointment", EntityID: appointment.AppointmentID})
	utils.Success(w, utils.M{"message": "Appointment booked"})
}

// ListAppointments returns the caller's legacy appointments, newest first.
func ListAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	cursor, err := db.AppointmentCollection.Find(r.Context(), bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		log.Printf("user: list appointments: %v", err)
		utils.Fail(w, "Could not fetch appointments")
		return
	}
	appointments := []models.Appointment{}
	if err := cursor.All(r.Context(), &appointments); err != nil {
		utils.Fail(w, "Could not fetch appointments")
		return
	}
	utils.Success(w, utils.M{"appointments": appointments})
}

type cancelRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// CancelAppointment cancels one of the caller's appointments and frees the
// reserved time in the provider's slots_booked map.
func CancelAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	var appointment models.Appointment
	if err := db.AppointmentCollection.FindOne(ctx, bson.M{"appointmentid": req.AppointmentID}).Decode(&appointment); err != nil {
		utils.Fail(w, "Appointment not found")
		return
	}
	if appointment.UserID != userID {
		utils.Fail(w, "Unauthorized action")
		return
	}
	if appointment.Cancelled {
		utils.Fail(w, "Appointment already cancelled")
		return
	}

	if _, err := db.AppointmentCollection.UpdateOne(ctx,
		bson.M{"appointmentid": req.AppointmentID},
		bson.M{"$set": bson.M{"cancelled": true}}); err != nil {
		log.Printf("user: cancel appointment: %v", err)
		utils.Fail(w, "Could not cancel appointment")
		return
	}

	ReleaseLegacySlot(ctx, appointment.ProviderID, appointment.SlotDate, appointment.SlotTime)

	mq.Emit("appointment-cancelled", mq.Message{EntityType: "appointment", EntityID: appointment.AppointmentID})
	utils.Success(w, utils.M{"message": "Appointment cancelled"})
}

// ReleaseLegacySlot removes a time from the provider's slots_booked bucket
// and drops the bucket once it is empty.
func ReleaseLegacySlot(ctx context.Context, providerID, slotDate, slotTime string) {
	bucket := "slots_booked." + slotDate
	if _, err := db.ProviderCollection.UpdateOne(ctx,
		bson.M{"providerid": providerID},
		bson.M{"$pull": bson.M{bucket: slotTime}}); err != nil {
		log.Printf("user: release slot: %v", err)
		return
	}
	db.ProviderCollection.UpdateOne(ctx,
		bson.M{"providerid": providerID, bucket: bson.A{}},
		bson.M{"$unset": bson.M{bucket: ""}})
}
