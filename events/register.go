package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/mq"
	"mawid/promo"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type registerRequest struct {
	EventID   string `json:"eventId"`
	PromoCode string `json:"promoCode"`
}

// RegisterForEvent adds the caller to an event's participant list. Free
// events register immediately; for paid events this is the payment-free
// path, the gateway checkout flows register through Register below.
func RegisterForEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	finalPrice, err := Register(r.Context(), req.EventID, userID, req.PromoCode)
	if err != nil {
		utils.Fail(w, err.Error())
		return
	}
	utils.Success(w, utils.M{"message": "Successfully registered for event", "finalPrice": finalPrice})
}

// Register performs the registration checks and participant insert shared
// by the direct endpoint and the payment verifiers. Error strings double as
// the client-facing failure messages.
func Register(ctx context.Context, eventID, userID, promoCode string) (float64, error) {
	var event models.Event
	if err := db.EventCollection.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event); err != nil {
		return 0, errors.New("Event not found")
	}
	if time.Now().After(event.RegistrationDeadline) {
		return 0, errors.New("Registration deadline has passed")
	}
	if event.MaxParticipants > 0 && len(event.Participants) >= event.MaxParticipants {
		return 0, errors.New("Event is full")
	}
	for _, p := range event.Participants {
		if p.UserID == userID {
			return 0, errors.New("You are already registered for this event")
		}
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return 0, errors.New("User not found")
	}

	finalPrice := event.Price
	usedPromo := ""
	if promoCode != "" && !event.IsFree {
		discounted, err := promo.Apply(ctx, promoCode, event.ProviderID, userID, event.Price)
		switch {
		case err == nil:
			finalPrice = discounted
			usedPromo = promoCode
		case errors.Is(err, promo.ErrLimitExceeded):
			return 0, errors.New("Promo code usage limit exceeded")
		case errors.Is(err, promo.ErrUserLimitReached):
			return 0, errors.New("You have reached the usage limit for this promo code")
		case err == mongo.ErrNoDocuments:
			// Unknown codes are ignored, full price applies.
		default:
			log.Printf("events: apply promo: %v", err)
			return 0, errors.New("Could not apply promo code")
		}
	}

	participant := models.Participant{
		UserID:           userID,
		UserData:         user.Public(),
		RegistrationDate: time.Now(),
		PromoCode:        usedPromo,
		FinalPrice:       finalPrice,
	}

	// The size guard in the filter keeps a concurrent pair of registrations
	// from overshooting capacity.
	filter := bson.M{"eventid": eventID, "participants.userid": bson.M{"$ne": userID}}
	if event.MaxParticipants > 0 {
		filter["$expr"] = bson.M{"$lt": bson.A{bson.M{"$size": "$participants"}, event.MaxParticipants}}
	}
	res, err := db.EventCollection.UpdateOne(ctx, filter,
		bson.M{"$push": bson.M{"participants": participant}})
	if err != nil {
		log.Printf("events: register: %v", err)
		return 0, errors.New("Could not register for event")
	}
	if res.ModifiedCount == 0 {
		return 0, errors.New("Event is full")
	}

	mq.Emit("event-registered", mq.Message{EntityType: "event", EntityID: eventID, UserID: userID, ProviderID: event.ProviderID})
	return finalPrice, nil
}
