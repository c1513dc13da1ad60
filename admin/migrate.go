package admin

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrateLegacyBookings copies uncancelled legacy appointments into
// calendar slot rows so both representations read the same schedule. Safe
// to run repeatedly; already-migrated appointments are skipped.
func MigrateLegacyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	cursor, err := db.AppointmentCollection.Find(ctx, bson.M{"cancelled": false})
	if err != nil {
		log.Printf("admin: migrate: %v", err)
		utils.Fail(w, "Migration failed")
		return
	}
	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		utils.Fail(w, "Migration failed")
		return
	}

	// Legacy appointments carry no duration; borrow each provider's
	// configured default.
	durations := map[string]int{}
	durationFor := func(providerID string) int {
		if d, ok := durations[providerID]; ok {
			return d
		}
		d := models.DefaultCalendarConfig(providerID).DefaultDuration
		var config models.CalendarConfig
		if err := db.CalendarConfigCollection.FindOne(ctx, bson.M{"providerid": providerID}).Decode(&config); err == nil && config.DefaultDuration > 0 {
			d = config.DefaultDuration
		}
		durations[providerID] = d
		return d
	}

	migrated := 0
	skipped := 0
	for _, appt := range appointments {
		date, ok := legacyDate(appt.SlotDate)
		if !ok {
			log.Printf("admin: migrate: unparseable slot date %q on %s", appt.SlotDate, appt.AppointmentID)
			skipped++
			continue
		}

		err := db.CalendarSlotCollection.FindOne(ctx, bson.M{
			"providerid": appt.ProviderID,
			"date":       date,
			"starttime":  appt.SlotTime,
		}).Err()
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			log.Printf("admin: migrate lookup: %v", err)
			utils.Fail(w, "Migration failed")
			return
		}

		duration := durationFor(appt.ProviderID)
		endTime := appt.SlotTime
		if start, perr := time.Parse("15:04", appt.SlotTime); perr == nil {
			endTime = start.Add(time.Duration(duration) * time.Minute).Format("15:04")
		}

		slot := models.CalendarSlot{
			SlotID:     "slot" + utils.GenerateRandomDigitString(16),
			ProviderID: appt.ProviderID,
			Date:       date,
			StartTime:  appt.SlotTime,
			EndTime:    endTime,
			Duration:   duration,
			IsActive:   true,
			IsBooked:   true,
			BookedBy:   appt.UserID,
			BookingData: &models.BookingSnapshot{
				UserData:     appt.UserData,
				ProviderData: appt.ProviderData,
				BookedAt:     time.UnixMilli(appt.Date),
			},
			Amount:      appt.Amount,
			Payment:     appt.Payment,
			IsCompleted: appt.IsCompleted,
			CreatedAt:   time.UnixMilli(appt.Date),
		}
		if _, err := db.CalendarSlotCollection.InsertOne(ctx, slot); err != nil {
			log.Printf("admin: migrate insert: %v", err)
			utils.Fail(w, "Migration failed")
			return
		}
		migrated++
	}

	utils.Success(w, utils.M{"message": "Migration complete", "migrated": migrated, "skipped": skipped})
}

// legacyDate normalizes an underscore slot token to "2006-01-02". Booking
// clients send day_month_year without padding ("28_8_2025"); merged
// calendar rows carry year-first zero-padded tokens ("2025_08_28"). Both
// orders are accepted, impossible dates are rejected.
func legacyDate(token string) (string, bool) {
	parts := strings.Split(token, "_")
	if len(parts) != 3 {
		return "", false
	}
	y, m, d := parts[0], parts[1], parts[2]
	if len(y) != 4 {
		y, m, d = parts[2], parts[1], parts[0]
	}
	yy, err1 := strconv.Atoi(y)
	mm, err2 := strconv.Atoi(m)
	dd, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil || len(y) != 4 {
		return "", false
	}
	t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Year() != yy || int(t.Month()) != mm || t.Day() != dd {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
