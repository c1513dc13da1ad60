// Package events implements provider-hosted paid events: creation,
// discovery and registration with promo support.
package events

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventForm struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	MaxParticipants      int       `json:"maxParticipants"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	IsFree               bool      `json:"isFree"`
	Price                float64   `json:"price"`
}

func validateDates(form eventForm) string {
	if form.StartDate.Before(time.Now()) {
		return "Start date must be in the future"
	}
	if !form.EndDate.After(form.StartDate) {
		return "End date must be after start date"
	}
	if !form.RegistrationDeadline.Before(form.StartDate) {
		return "Registration deadline must be before start date"
	}
	return ""
}

// CreateEvent publishes a new event for the calling provider.
func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var form eventForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}
	if form.Title == "" || form.Description == "" || form.Location == "" {
		utils.Fail(w, "Please fill in all fields")
		return
	}
	if msg := validateDates(form); msg != "" {
		utils.Fail(w, msg)
		return
	}
	if !form.IsFree && form.Price <= 0 {
		utils.Fail(w, "Price must be greater than 0 for paid events")
		return
	}

	ctx := r.Context()
	var provider models.Provider
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"providerid": providerID}).Decode(&provider); err != nil {
		utils.Fail(w, "Service provider not found")
		return
	}

	event := models.Event{
		EventID:              "event" + utils.GenerateRandomDigitString(12),
		Title:                form.Title,
		Description:          form.Description,
		Location:             form.Location,
		StartDate:            form.StartDate,
		EndDate:              form.EndDate,
		MaxParticipants:      form.MaxParticipants,
		RegistrationDeadline: form.RegistrationDeadline,
		IsFree:               form.IsFree,
		Price:                form.Price,
		ProviderID:           providerID,
		ProviderData:         provider.Public(),
		Participants:         []models.Participant{},
		IsActive:             true,
		CreatedAt:            time.Now(),
	}
	if event.IsFree {
		event.Price = 0
	}

	if _, err := db.EventCollection.InsertOne(ctx, event); err != nil {
		log.Printf("events: create: %v", err)
		utils.Fail(w, "Could not create event")
		return
	}
	utils.Success(w, utils.M{"message": "Event created successfully", "eventid": event.EventID})
}

// GetProviderEvents lists the calling provider's events, newest first.
func GetProviderEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	events, err := findEvents(r, bson.M{"providerid": providerID})
	if err != nil {
		log.Printf("events: provider list: %v", err)
		utils.Fail(w, "Could not fetch events")
		return
	}
	utils.Success(w, utils.M{"events": events})
}

// GetAllEvents lists active events still open for registration. Public.
func GetAllEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	events, err := findEvents(r, bson.M{
		"isactive":             true,
		"registrationdeadline": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		log.Printf("events: list: %v", err)
		utils.Fail(w, "Could not fetch events")
		return
	}
	utils.Success(w, utils.M{"events": events})
}

// GetUserEvents lists events the caller is registered for.
func GetUserEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	events, err := findEvents(r, bson.M{"participants.userid": userID})
	if err != nil {
		log.Printf("events: user list: %v", err)
		utils.Fail(w, "Could not fetch events")
		return
	}
	utils.Success(w, utils.M{"events": events})
}

func findEvents(r *http.Request, filter bson.M) ([]models.Event, error) {
	cursor, err := db.EventCollection.Find(r.Context(), filter,
		options.Find().SetSort(bson.D{{Key: "startdate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := cursor.All(r.Context(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent edits an event owned by the calling provider.
func UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)
	eventID := ps.ByName("eventId")

	var form struct {
		Title                *string    `json:"title"`
		Description          *string    `json:"description"`
		Location             *string    `json:"location"`
		StartDate            *time.Time `json:"startDate"`
		EndDate              *time.Time `json:"endDate"`
		MaxParticipants      *int       `json:"maxParticipants"`
		RegistrationDeadline *time.Time `json:"registrationDeadline"`
		IsActive             *bool      `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()
	var event models.Event
	if err := db.EventCollection.FindOne(ctx, bson.M{"eventid": eventID, "providerid": providerID}).Decode(&event); err != nil {
		utils.Fail(w, "Event not found or unauthorized")
		return
	}

	update := bson.M{}
	if form.Title != nil {
		update["title"] = *form.Title
	}
	if form.Description != nil {
		update["description"] = *form.Description
	}
	if form.Location != nil {
		update["location"] = *form.Location
	}
	startDate := event.StartDate
	endDate := event.EndDate
	deadline := event.RegistrationDeadline
	if form.StartDate != nil {
		startDate = *form.StartDate
		update["startdate"] = startDate
	}
	if form.EndDate != nil {
		endDate = *form.EndDate
		update["enddate"] = endDate
	}
	if form.RegistrationDeadline != nil {
		deadline = *form.RegistrationDeadline
		update["registrationdeadline"] = deadline
	}
	if !endDate.After(startDate) {
		utils.Fail(w, "End date must be after start date")
		return
	}
	if !deadline.Before(startDate) {
		utils.Fail(w, "Registration deadline must be before start date")
		return
	}
	if form.MaxParticipants != nil {
		update["maxparticipants"] = *form.MaxParticipants
	}
	if form.IsActive != nil {
		update["isactive"] = *form.IsActive
	}
	if len(update) == 0 {
		utils.Fail(w, "Nothing to update")
		return
	}

	if _, err := db.EventCollection.UpdateOne(ctx, bson.M{"eventid": eventID}, bson.M{"$set": update}); err != nil {
		log.Printf("events: update: %v", err)
		utils.Fail(w, "Could not update event")
		return
	}
	utils.Success(w, utils.M{"message": "Event updated successfully"})
}

// DeleteEvent removes an event owned by the calling provider.
func DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)
	eventID := ps.ByName("eventId")

	res, err := db.EventCollection.DeleteOne(r.Context(), bson.M{"eventid": eventID, "providerid": providerID})
	if err != nil {
		log.Printf("events: delete: %v", err)
		utils.Fail(w, "Could not delete event")
		return
	}
	if res.DeletedCount == 0 {
		utils.Fail(w, "Event not found or unauthorized")
		return
	}
	utils.Success(w, utils.M{"message": "Event deleted successfully"})
}
