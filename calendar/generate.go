package calendar

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// clockAt anchors an "HH:MM" string on a calendar date in server local time.
// No timezone normalization anywhere in the slot engine.
func clockAt(date, hm string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+hm, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// overlapsBreak reports half-open interval overlap:
// candStart < breakEnd && candEnd > breakStart. Back-to-back intervals do
// not overlap.
func overlapsBreak(candStart, candEnd time.Time, date string, breaks []models.BreakTime) bool {
	for _, br := range breaks {
		brStart, ok1 := clockAt(date, br.Start)
		brEnd, ok2 := clockAt(date, br.End)
		if !ok1 || !ok2 {
			continue
		}
		if candStart.Before(brEnd) && candEnd.After(brStart) {
			return true
		}
	}
	return false
}

// ExpandDay walks the working-hours window in DefaultDuration increments
// and returns every candidate slot that fits inside the window and clears
// all breaks. Non-working days yield nil.
func ExpandDay(config models.CalendarConfig, day time.Time) []models.CalendarSlot {
	if !slices.Contains(config.WorkingDays, int(day.Weekday())) {
		return nil
	}

	date := day.Format(dateLayout)
	workStart, ok1 := clockAt(date, config.WorkingHours.Start)
	workEnd, ok2 := clockAt(date, config.WorkingHours.End)
	if !ok1 || !ok2 {
		return nil
	}

	duration := time.Duration(config.DefaultDuration) * time.Minute
	var slots []models.CalendarSlot
	for cur := workStart; cur.Before(workEnd); cur = cur.Add(duration) {
		end := cur.Add(duration)
		if end.After(workEnd) {
			break
		}
		if overlapsBreak(cur, end, date, config.BreakTimes) {
			continue
		}
		slots = append(slots, models.CalendarSlot{
			SlotID:     "slot" + utils.GenerateRandomDigitString(16),
			ProviderID: config.ProviderID,
			Date:       date,
			StartTime:  cur.Format(clockLayout),
			EndTime:    end.Format(clockLayout),
			Duration:   config.DefaultDuration,
			IsActive:   true,
			IsBooked:   false,
			CreatedAt:  time.Now(),
		})
	}
	return slots
}

type generateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// GenerateSlots regenerates a provider's slots over an inclusive date
// range. Regeneration is additive: booked slots are never touched, unbooked
// slots are replaced by the freshly expanded template.
func GenerateSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	start, err1 := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
	end, err2 := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
	if err1 != nil || err2 != nil || start.After(end) {
		utils.Fail(w, "Invalid date range")
		return
	}

	ctx := r.Context()
	var config models.CalendarConfig
	if err := db.CalendarConfigCollection.FindOne(ctx, bson.M{"providerid": providerID}).Decode(&config); err != nil {
		utils.Fail(w, "Calendar configuration not found")
		return
	}

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		candidates := ExpandDay(config, day)
		if candidates == nil {
			continue
		}
		date := day.Format(dateLayout)

		// Collect booked start times for the day so regeneration cannot
		// destroy a booking record.
		booked, err := bookedStartTimes(ctx, providerID, date)
		if err != nil {
			log.Printf("calendar: list booked slots %s: %v", date, err)
			utils.Fail(w, "Could not generate slots")
			return
		}

		if _, err := db.CalendarSlotCollection.DeleteMany(ctx, bson.M{
			"providerid": providerID,
			"date":       date,
			"isbooked":   false,
		}); err != nil {
			log.Printf("calendar: delete unbooked slots %s: %v", date, err)
			utils.Fail(w, "Could not generate slots")
			return
		}

		var docs []interface{}
		for _, slot := range withoutBooked(candidates, booked) {
			docs = append(docs, slot)
		}
		if len(docs) > 0 {
			if _, err := db.CalendarSlotCollection.InsertMany(ctx, docs); err != nil {
				log.Printf("calendar: insert slots %s: %v", date, err)
				utils.Fail(w, "Could not generate slots")
				return
			}
			created += len(docs)
		}
	}

	BroadcastSlotUpdate(providerID, utils.M{"action": "generated", "count": created})
	utils.Success(w, utils.M{"message": "Slots generated", "slots": created})
}

// withoutBooked drops every candidate whose start time already carries a
// live booking, so regeneration can never clobber a booking record.
func withoutBooked(candidates []models.CalendarSlot, booked map[string]struct{}) []models.CalendarSlot {
	var kept []models.CalendarSlot
	for _, slot := range candidates {
		if _, taken := booked[slot.StartTime]; taken {
			continue
		}
		kept = append(kept, slot)
	}
	return kept
}

// bookedSlotFilter matches live bookings only. Cancelled rows stay behind
// as history but their start times are re-offered on regeneration.
func bookedSlotFilter(providerID, date string) bson.M {
	return bson.M{
		"providerid": providerID,
		"date":       date,
		"isbooked":   true,
		"cancelled":  false,
	}
}

func bookedStartTimes(ctx context.Context, providerID, date string) (map[string]struct{}, error) {
	cur, err := db.CalendarSlotCollection.Find(ctx, bookedSlotFilter(providerID, date))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	taken := make(map[string]struct{})
	for cur.Next(ctx) {
		var slot models.CalendarSlot
		if err := cur.Decode(&slot); err != nil {
			continue
		}
		taken[slot.StartTime] = struct{}{}
	}
	return taken, cur.Err()
}
