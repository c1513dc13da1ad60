package calendar

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mawid/db"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// loadConfig returns the provider's template, creating the default one on
// first access. Write-on-read keeps every provider bookable without setup.
func loadConfig(ctx context.Context, providerID string) (models.CalendarConfig, error) {
	var config models.CalendarConfig
	err := db.CalendarConfigCollection.FindOne(ctx, bson.M{"providerid": providerID}).Decode(&config)
	if err == nil {
		return config, nil
	}
	if err != mongo.ErrNoDocuments {
		return config, err
	}

	config = models.DefaultCalendarConfig(providerID)
	if _, err := db.CalendarConfigCollection.InsertOne(ctx, config); err != nil {
		return config, err
	}
	return config, nil
}

func GetConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	config, err := loadConfig(r.Context(), providerID)
	if err != nil {
		log.Printf("calendar: load config: %v", err)
		utils.Fail(w, "Could not load calendar configuration")
		return
	}

	utils.Success(w, utils.M{"config": config})
}

type configPatch struct {
	DefaultDuration int                 `json:"defaultDuration"`
	WorkingDays     []int               `json:"workingDays"`
	WorkingHours    models.WorkingHours `json:"workingHours"`
	BreakTimes      []models.BreakTime  `json:"breakTimes"`
}

// UpdateConfig replaces the template wholesale. Only interval ordering is
// validated; breaks outside working hours or odd durations are tolerated
// and simply yield fewer slots at generation time.
func UpdateConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := utils.GetProviderIDFromRequest(r)

	var patch configPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	if patch.DefaultDuration <= 0 {
		utils.Fail(w, "Slot duration must be positive")
		return
	}
	if patch.WorkingHours.Start >= patch.WorkingHours.End {
		utils.Fail(w, "Working hours start must be before end")
		return
	}
	for _, br := range patch.BreakTimes {
		if br.Start >= br.End {
			utils.Fail(w, "Break start must be before end")
			return
		}
	}

	update := bson.M{"$set": bson.M{
		"defaultduration": patch.DefaultDuration,
		"workingdays":     patch.WorkingDays,
		"workinghours":    patch.WorkingHours,
		"breaktimes":      patch.BreakTimes,
		"updatedat":       time.Now(),
	}, "$setOnInsert": bson.M{
		"providerid": providerID,
		"createdat":  time.Now(),
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := db.CalendarConfigCollection.UpdateOne(r.Context(), bson.M{"providerid": providerID}, update, opts); err != nil {
		log.Printf("calendar: update config: %v", err)
		utils.Fail(w, "Could not update calendar configuration")
		return
	}

	var config models.CalendarConfig
	if err := db.CalendarConfigCollection.FindOne(r.Context(), bson.M{"providerid": providerID}).Decode(&config); err != nil {
		log.Printf("calendar: reload config: %v", err)
		utils.Fail(w, "Could not load calendar configuration")
		return
	}

	utils.Success(w, utils.M{"message": "Configuration updated", "config": config})
}
