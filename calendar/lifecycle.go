package calendar

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/mq"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pendingTTL is how long an unpaid reservation holds a slot before the
// sweeper releases it.
func pendingTTL() time.Duration {
	if v := os.Getenv("PENDING_TTL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return 30 * time.Minute
}

type slotRequest struct {
	SlotID string `json:"slotId"`
}

// ToggleSlotStatus flips provider-controlled visibility on an unbooked slot.
func ToggleSlotStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var slot models.CalendarSlot
	err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID, "providerid": providerID}).Decode(&slot)
	if err != nil {
		utils.Fail(w, "Slot not found")
		return
	}
	if slot.IsBooked {
		utils.Fail(w, "Cannot modify a booked slot")
		return
	}

	_, err = db.CalendarSlotCollection.UpdateOne(ctx,
		bson.M{"slotid": req.SlotID, "providerid": providerID, "isbooked": false},
		bson.M{"$set": bson.M{"isactive": !slot.IsActive}},
	)
	if err != nil {
		log.Printf("calendar: toggle slot %s: %v", req.SlotID, err)
		utils.Fail(w, "Could not update slot")
		return
	}

	BroadcastSlotUpdate(providerID, utils.M{"action": "toggled", "slotId": req.SlotID, "isActive": !slot.IsActive})
	if slot.IsActive {
		utils.Success(w, utils.M{"message": "Slot deactivated"})
	} else {
		utils.Success(w, utils.M{"message": "Slot activated"})
	}
}

// bookableFilter matches a slot that is still open for reservation. Only a
// document matching all four conditions can flip to booked.
func bookableFilter(slotID string) bson.M {
	return bson.M{
		"slotid":    slotID,
		"isactive":  true,
		"isbooked":  false,
		"cancelled": false,
	}
}

// BookSlot reserves a slot for the authenticated user. The reservation is
// a single conditional update: whoever's filter matches first wins, the
// loser's update matches zero documents. No read-check-write window.
func BookSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID}).Decode(&slot); err != nil {
		utils.Fail(w, "Slot not found")
		return
	}
	if !slot.IsActive || slot.IsBooked {
		utils.Fail(w, "Slot not available")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.Fail(w, "User not found")
		return
	}
	var provider models.Provider
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"providerid": slot.ProviderID}).Decode(&provider); err != nil {
		utils.Fail(w, "Service provider not found")
		return
	}

	now := time.Now()
	snapshot := models.BookingSnapshot{
		UserData:     user.Public(),
		ProviderData: provider.Public(),
		BookedAt:     now,
	}

	res, err := db.CalendarSlotCollection.UpdateOne(ctx,
		bookableFilter(req.SlotID),
		bson.M{"$set": bson.M{
			"isbooked":         true,
			"bookedby":         userID,
			"amount":           provider.Fees,
			"bookingdata":      snapshot,
			"pendingexpiresat": now.Add(pendingTTL()),
		}},
	)
	if err != nil {
		log.Printf("calendar: book slot %s: %v", req.SlotID, err)
		utils.Fail(w, "Could not book slot")
		return
	}
	if res.ModifiedCount == 0 {
		// Lost the race or the slot was toggled off in between.
		utils.Fail(w, "Slot not available")
		return
	}

	mq.Emit("slot-booked", mq.Message{EntityType: "slot", EntityID: req.SlotID, UserID: userID, ProviderID: slot.ProviderID})
	BroadcastSlotUpdate(slot.ProviderID, utils.M{"action": "booked", "slotId": req.SlotID})
	utils.Success(w, utils.M{"message": "Slot booked successfully"})
}

// CancelSlotBooking lets a user cancel their own booking. Cancellation is
// terminal: the slot keeps its history and is never freed for rebooking.
func CancelSlotBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID}).Decode(&slot); err != nil {
		utils.Fail(w, "Slot not found")
		return
	}
	if slot.BookedBy != userID {
		utils.Fail(w, "Not authorized")
		return
	}

	if err := CancelSlot(ctx, req.SlotID, slot.ProviderID); err != nil {
		log.Printf("calendar: cancel slot %s: %v", req.SlotID, err)
		utils.Fail(w, "Could not cancel booking")
		return
	}
	utils.Success(w, utils.M{"message": "Booking cancelled"})
}

// CancelSlotBookingByProvider cancels a booking on the provider's own slot.
func CancelSlotBookingByProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID, "providerid": providerID}).Decode(&slot); err != nil {
		utils.Fail(w, "Slot not found")
		return
	}

	if err := CancelSlot(ctx, req.SlotID, providerID); err != nil {
		log.Printf("calendar: cancel slot %s: %v", req.SlotID, err)
		utils.Fail(w, "Could not cancel booking")
		return
	}
	utils.Success(w, utils.M{"message": "Booking cancelled"})
}

func CancelSlot(ctx context.Context, slotID, providerID string) error {
	_, err := db.CalendarSlotCollection.UpdateOne(ctx,
		bson.M{"slotid": slotID},
		bson.M{"$set": bson.M{"cancelled": true}, "$unset": bson.M{"pendingexpiresat": ""}},
	)
	if err == nil {
		mq.Emit("slot-cancelled", mq.Message{EntityType: "slot", EntityID: slotID, ProviderID: providerID})
		BroadcastSlotUpdate(providerID, utils.M{"action": "cancelled", "slotId": slotID})
	}
	return err
}

// CompleteSlotBooking marks a booked slot as completed. Cancelled bookings
// cannot complete.
func CompleteSlotBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(ctx, bson.M{"slotid": req.SlotID, "providerid": providerID}).Decode(&slot); err != nil {
		utils.Fail(w, "Slot not found")
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

	if err := CompleteSlot(ctx, req.SlotID, providerID); err != nil {
		log.Printf("calendar: complete slot %s: %v", req.SlotID, err)
		utils.Fail(w, "Could not complete booking")
		return
	}
	utils.Success(w, utils.M{"message": "Booking marked as completed"})
}

// CompleteSlot marks a booked, uncancelled slot as completed.
func CompleteSlot(ctx context.Context, slotID, providerID string) error {
	_, err := db.CalendarSlotCollection.UpdateOne(ctx,
		bson.M{"slotid": slotID, "providerid": providerID, "cancelled": false},
		bson.M{"$set": bson.M{"iscompleted": true}, "$unset": bson.M{"pendingexpiresat": ""}},
	)
	return err
}

// MarkSlotPaid records payment against a booked slot and lifts the pending
// expiry. Setting the same flag twice is a no-op.
func MarkSlotPaid(ctx context.Context, slotID string) error {
	_, err := db.CalendarSlotCollection.UpdateOne(ctx,
		bson.M{"slotid": slotID},
		bson.M{"$set": bson.M{"payment": true}, "$unset": bson.M{"pendingexpiresat": ""}},
	)
	return err
}

// GetProviderSlots lists a provider's own slots, optionally bounded by a
// date range.
func GetProviderSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	filter := bson.M{"providerid": providerID}
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate != "" && endDate != "" {
		filter["date"] = bson.M{"$gte": startDate, "$lte": endDate}
	}

	slots, err := findSlots(r.Context(), filter)
	if err != nil {
		log.Printf("calendar: list provider slots: %v", err)
		utils.Fail(w, "Could not load slots")
		return
	}
	utils.Success(w, utils.M{"slots": slots})
}

// GetAvailableSlots lists bookable slots for a provider, public endpoint.
// Expired pending reservations are released lazily before the query runs.
func GetAvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := ps.ByName("providerId")
	ctx := r.Context()

	var provider models.Provider
	err := db.ProviderCollection.FindOne(ctx, bson.M{"providerid": providerID}).Decode(&provider)
	if err != nil || !provider.Available {
		utils.Fail(w, "Service not available")
		return
	}

	if err := ReleaseExpiredPending(ctx, providerID); err != nil {
		log.Printf("calendar: release expired pending: %v", err)
	}

	startDate := r.URL.Query().Get("startDate")
	if startDate == "" {
		startDate = time.Now().Format(dateLayout)
	}
	filter := bson.M{
		"providerid": providerID,
		"isactive":   true,
		"isbooked":   false,
		"date":       bson.M{"$gte": startDate},
	}
	if endDate := r.URL.Query().Get("endDate"); endDate != "" {
		filter["date"] = bson.M{"$gte": startDate, "$lte": endDate}
	}

	slots, err := findSlots(ctx, filter)
	if err != nil {
		log.Printf("calendar: list available slots: %v", err)
		utils.Fail(w, "Could not load slots")
		return
	}
	utils.Success(w, utils.M{"slots": slots})
}

// GetUserBookings lists the authenticated user's calendar bookings.
func GetUserBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	slots, err := findSlots(r.Context(), bson.M{"bookedby": userID, "isbooked": true})
	if err != nil {
		log.Printf("calendar: list user bookings: %v", err)
		utils.Fail(w, "Could not load bookings")
		return
	}
	utils.Success(w, utils.M{"bookings": slots})
}

func findSlots(ctx context.Context, filter bson.M) ([]models.CalendarSlot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "starttime", Value: 1}})
	cur, err := db.CalendarSlotCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	slots := []models.CalendarSlot{}
	for cur.Next(ctx) {
		var slot models.CalendarSlot
		if err := cur.Decode(&slot); err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, cur.Err()
}

// ReleaseExpiredPending reverts expired unpaid reservations to
// unbooked-active. Scoped to one provider when providerID is non-empty.
func ReleaseExpiredPending(ctx context.Context, providerID string) error {
	filter := bson.M{
		"isbooked":         true,
		"payment":          false,
		"iscompleted":      false,
		"cancelled":        false,
		"pendingexpiresat": bson.M{"$lt": time.Now()},
	}
	if providerID != "" {
		filter["providerid"] = providerID
	}

	res, err := db.CalendarSlotCollection.UpdateMany(ctx, filter, bson.M{
		"$set":   bson.M{"isbooked": false, "isactive": true, "amount": 0},
		"$unset": bson.M{"bookedby": "", "bookingdata": "", "pendingexpiresat": ""},
	})
	if err == nil && res.ModifiedCount > 0 {
		log.Printf("calendar: released %d expired pending reservations", res.ModifiedCount)
	}
	return err
}

// StartPendingSweeper releases expired unpaid reservations across all
// providers on a fixed interval. Runs until the process exits.
func StartPendingSweeper() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := ReleaseExpiredPending(ctx, ""); err != nil && err != mongo.ErrNoDocuments {
			log.Printf("calendar: pending sweep: %v", err)
		}
		cancel()
	}
}
