// Package payments exposes checkout and verification endpoints for the
// three purchasable things: legacy appointments, calendar slot bookings
// and event registrations. The processor is a route parameter resolved
// through the gateway registry.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mawid/calendar"
	"mawid/db"
	"mawid/events"
	"mawid/gateway"
	"mawid/models"
	"mawid/mq"
	"mawid/promo"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func gatewayFrom(w http.ResponseWriter, ps httprouter.Params) (gateway.Gateway, bool) {
	gw, err := gateway.ByName(ps.ByName("gateway"))
	if err != nil {
		utils.Fail(w, "Unsupported payment gateway")
		return nil, false
	}
	return gw, true
}

func respondCheckout(w http.ResponseWriter, c gateway.Checkout) {
	extra := utils.M{}
	if c.SessionURL != "" {
		extra["session_url"] = c.SessionURL
	}
	if c.Order != nil {
		extra["order"] = c.Order
	}
	if c.FormData != nil {
		extra["formData"] = c.FormData
	}
	utils.Success(w, extra)
}

type checkoutRequest struct {
	AppointmentID string `json:"appointmentId"`
	SlotID        string `json:"slotId"`
	EventID       string `json:"eventId"`
	PromoCode     string `json:"promoCode"`
}

type verifyRequest struct {
	AppointmentID string  `json:"appointmentId"`
	SlotID        string  `json:"slotId"`
	EventID       string  `json:"eventId"`
	OrderID       string  `json:"razorpay_order_id"`
	Success       string  `json:"success"`
	Signature     string  `json:"signature"`
	PromoCode     string  `json:"promoCode"`
	Amount        float64 `json:"amount"`
}

// CheckoutAppointment starts payment for a legacy appointment.
func CheckoutAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	var appointment models.Appointment
	if err := db.AppointmentCollection.FindOne(r.Context(), bson.M{"appointmentid": req.AppointmentID}).Decode(&appointment); err != nil || appointment.Cancelled {
		utils.Fail(w, "Appointment not found or cancelled")
		return
	}

	checkout, err := gw.CreateCheckout(r.Context(), gateway.CheckoutItem{
		Kind:      "appointment",
		ID:        appointment.AppointmentID,
		Name:      "Appointment with " + appointment.ProviderData.Name,
		Amount:    appointment.Amount,
		Origin:    r.Header.Get("Origin"),
		ReturnURL: "/verify-payment",
	})
	if err != nil {
		log.Printf("payments: %s appointment checkout: %v", gw.Name(), err)
		utils.Fail(w, "Could not start payment")
		return
	}
	respondCheckout(w, checkout)
}

// VerifyAppointment confirms payment and flags the appointment paid.
func VerifyAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	// The signature covers the stored amount, never a client-supplied one.
	amount := req.Amount
	if req.AppointmentID != "" {
		var appointment models.Appointment
		if err := db.AppointmentCollection.FindOne(ctx, bson.M{"appointmentid": req.AppointmentID}).Decode(&appointment); err == nil {
			amount = appointment.Amount
		}
	}

	itemID, paid, err := gw.Verify(ctx, gateway.VerifyRequest{
		ItemID:    req.AppointmentID,
		OrderID:   req.OrderID,
		Success:   req.Success == "true",
		Signature: req.Signature,
		Amount:    amount,
	})
	if err != nil {
		log.Printf("payments: %s appointment verify: %v", gw.Name(), err)
		utils.Fail(w, "Payment verification failed")
		return
	}
	if !paid {
		utils.Fail(w, "Payment failed")
		return
	}

	if _, err := db.AppointmentCollection.UpdateOne(ctx,
		bson.M{"appointmentid": itemID},
		bson.M{"$set": bson.M{"payment": true}}); err != nil {
		log.Printf("payments: mark appointment paid: %v", err)
		utils.Fail(w, "Payment verification failed")
		return
	}

	mq.Emit("payment-received", mq.Message{EntityType: "appointment", EntityID: itemID})
	utils.Success(w, utils.M{"message": "Payment verified successfully"})
}

// CheckoutSlot starts payment for a pending calendar slot booking.
func CheckoutSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SlotID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(r.Context(), bson.M{"slotid": req.SlotID}).Decode(&slot); err != nil || slot.Cancelled || !slot.IsBooked {
		utils.Fail(w, "Booking not found or cancelled")
		return
	}

	name := "Booking"
	if slot.BookingData != nil {
		name = "Booking with " + slot.BookingData.ProviderData.Name
	}

	checkout, err := gw.CreateCheckout(r.Context(), gateway.CheckoutItem{
		Kind:      "slot",
		ID:        slot.SlotID,
		Name:      name,
		Amount:    slot.Amount,
		Origin:    r.Header.Get("Origin"),
		ReturnURL: "/verify-calendar-payment",
	})
	if err != nil {
		log.Printf("payments: %s slot checkout: %v", gw.Name(), err)
		utils.Fail(w, "Could not start payment")
		return
	}
	respondCheckout(w, checkout)
}

// VerifySlot confirms payment for a slot booking and lifts its pending
// expiry.
func VerifySlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	amount := req.Amount
	if req.SlotID != "" {
		var slot models.CalendarSlot
		if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID}).Decode(&slot); err == nil {
			amount = slot.Amount
		}
	}

	itemID, paid, err := gw.Verify(ctx, gateway.VerifyRequest{
		ItemID:    req.SlotID,
		OrderID:   req.OrderID,
		Success:   req.Success == "true",
		Signature: req.Signature,
		Amount:    amount,
	})
	if err != nil {
		log.Printf("payments: %s slot verify: %v", gw.Name(), err)
		utils.Fail(w, "Payment verification failed")
		return
	}
	if !paid {
		utils.Fail(w, "Payment failed")
		return
	}

	if err := calendar.MarkSlotPaid(ctx, itemID); err != nil {
		log.Printf("payments: mark slot paid: %v", err)
		utils.Fail(w, "Payment verification failed")
		return
	}

	mq.Emit("payment-received", mq.Message{EntityType: "slot", EntityID: itemID})
	utils.Success(w, utils.M{"message": "Payment verified successfully"})
}

// eventPrice quotes the payable price for an event, with any promo code
// applied non-consumingly. Checkout and verification both go through it so
// the amount a signature covers is the amount verification checks.
func eventPrice(ctx context.Context, event models.Event, userID, promoCode string) (float64, error) {
	if promoCode == "" {
		return event.Price, nil
	}
	quoted, err := promo.Quote(ctx, promoCode, event.ProviderID, userID, event.Price)
	switch {
	case err == nil:
		return quoted, nil
	case err == promo.ErrLimitExceeded:
		return 0, errors.New("Promo code usage limit exceeded")
	case err == promo.ErrUserLimitReached:
		return 0, errors.New("You have reached the usage limit for this promo code")
	case err == mongo.ErrNoDocuments:
		// Unknown codes are ignored, full price applies.
		return event.Price, nil
	default:
		log.Printf("payments: quote promo: %v", err)
		return 0, errors.New("Could not apply promo code")
	}
}

// CheckoutEvent starts payment for an event registration. The price is
// quoted with any promo applied; the usage is only consumed when the
// verified payment registers the participant.
func CheckoutEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}
	userID := utils.GetUserIDFromRequest(r)

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()
	var event models.Event
	if err := db.EventCollection.FindOne(ctx, bson.M{"eventid": req.EventID}).Decode(&event); err != nil {
		utils.Fail(w, "Event not found")
		return
	}
	if event.IsFree {
		utils.Fail(w, "Event is free, no payment required")
		return
	}

	price, err := eventPrice(ctx, event, userID, req.PromoCode)
	if err != nil {
		utils.Fail(w, err.Error())
		return
	}

	if price <= 0 {
		// Fully discounted, register without a processor round-trip.
		finalPrice, err := events.Register(ctx, req.EventID, userID, req.PromoCode)
		if err != nil {
			utils.Fail(w, err.Error())
			return
		}
		utils.Success(w, utils.M{"message": "Successfully registered for event", "finalPrice": finalPrice})
		return
	}

	checkout, err := gw.CreateCheckout(ctx, gateway.CheckoutItem{
		Kind:      "event",
		ID:        event.EventID,
		Name:      event.Title,
		Amount:    price,
		Origin:    r.Header.Get("Origin"),
		ReturnURL: "/verify-event-payment",
	})
	if err != nil {
		log.Printf("payments: %s event checkout: %v", gw.Name(), err)
		utils.Fail(w, "Could not start payment")
		return
	}
	respondCheckout(w, checkout)
}

// VerifyEvent confirms payment and performs the registration.
func VerifyEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gw, ok := gatewayFrom(w, ps)
	if !ok {
		return
	}
	userID := utils.GetUserIDFromRequest(r)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()

	// The checkout signed the promo-quoted price, so verification re-quotes
	// with the same code instead of using the full event price.
	amount := req.Amount
	var event models.Event
	if req.EventID != "" {
		if err := db.EventCollection.FindOne(ctx, bson.M{"eventid": req.EventID}).Decode(&event); err == nil {
			quoted, perr := eventPrice(ctx, event, userID, req.PromoCode)
			if perr != nil {
				utils.Fail(w, perr.Error())
				return
			}
			amount = quoted
		}
	}

	itemID, paid, err := gw.Verify(ctx, gateway.VerifyRequest{
		ItemID:    req.EventID,
		OrderID:   req.OrderID,
		Success:   req.Success == "true",
		Signature: req.Signature,
		Amount:    amount,
	})
	if err != nil {
		log.Printf("payments: %s event verify: %v", gw.Name(), err)
		utils.Fail(w, "Payment verification failed")
		return
	}
	if !paid {
		utils.Fail(w, "Payment failed")
		return
	}

	finalPrice, err := events.Register(ctx, itemID, userID, req.PromoCode)
	if err != nil {
		utils.Fail(w, err.Error())
		return
	}

	mq.Emit("payment-received", mq.Message{EntityType: "event", EntityID: itemID, UserID: userID})
	utils.Success(w, utils.M{"message": "Successfully registered for event", "finalPrice": finalPrice})
}
