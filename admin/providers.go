package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"mawid/db"
	"mawid/filemgr"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AddProvider creates a provider account directly, skipping the OTP flow.
// Admin-created providers start available.
func AddProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.Fail(w, "Unable to parse form")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	speciality := r.FormValue("speciality")
	degree := r.FormValue("degree")
	experience := r.FormValue("experience")
	about := r.FormValue("about")
	fees, _ := strconv.ParseFloat(r.FormValue("fees"), 64)

	if name == "" || email == "" || password == "" || speciality == "" ||
		degree == "" || experience == "" || about == "" || fees <= 0 {
		utils.Fail(w, "Please fill in all fields")
		return
	}
	if !utils.IsValidEmail(email) {
		utils.Fail(w, "Enter a valid email")
		return
	}
	if len(password) < 8 {
		utils.Fail(w, "Password must be at least 8 characters long")
		return
	}

	var address models.Address
	if addr := r.FormValue("address"); addr != "" {
		json.Unmarshal([]byte(addr), &address)
	}

	ctx := r.Context()
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		utils.Fail(w, "A provider with this email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		log.Printf("admin: lookup provider: %v", err)
		utils.Fail(w, "Could not add provider")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.Fail(w, "Image not selected")
		return
	}
	defer file.Close()
	if !utils.ValidImageFileType(header) {
		utils.Fail(w, "Unsupported image type")
		return
	}
	image, err := filemgr.SaveProviderImage(file)
	if err != nil {
		log.Printf("admin: save provider image: %v", err)
		utils.Fail(w, "Could not save image")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.Fail(w, "Could not add provider")
		return
	}

	provider := models.Provider{
		ProviderID:  "p" + utils.GenerateRandomDigitString(12),
		Name:        name,
		Email:       email,
		Password:    string(hashed),
		Image:       image,
		Speciality:  speciality,
		Degree:      degree,
		Experience:  experience,
		About:       about,
		Available:   true,
		Fees:        fees,
		Address:     address,
		CreatedAt:   time.Now(),
		SlotsBooked: map[string][]string{},
	}
	if _, err := db.ProviderCollection.InsertOne(ctx, provider); err != nil {
		log.Printf("admin: insert provider: %v", err)
		utils.Fail(w, "Could not add provider")
		return
	}

	utils.Success(w, utils.M{"message": "Provider added"})
}

// AllProviders lists every provider for the admin panel.
func AllProviders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.ProviderCollection.Find(r.Context(), bson.M{})
	if err != nil {
		log.Printf("admin: all providers: %v", err)
		utils.Fail(w, "Could not fetch providers")
		return
	}
	providers := []models.Provider{}
	if err := cursor.All(r.Context(), &providers); err != nil {
		utils.Fail(w, "Could not fetch providers")
		return
	}
	utils.Success(w, utils.M{"providers": providers})
}

type availabilityRequest struct {
	ProviderID string `json:"docId"`
}

// ChangeAvailability toggles whether a provider accepts bookings. This is
// also the approval switch for self-registered accounts.
func ChangeAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderID == "" {
		utils.Fail(w, "Invalid request payload")
		return
	}

	ctx := r.Context()
	var provider models.Provider
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"providerid": req.ProviderID}).Decode(&provider); err != nil {
		utils.Fail(w, "Provider not found")
		return
	}

	if _, err := db.ProviderCollection.UpdateOne(ctx,
		bson.M{"providerid": req.ProviderID},
		bson.M{"$set": bson.M{"available": !provider.Available}}); err != nil {
		log.Printf("admin: change availability: %v", err)
		utils.Fail(w, "Could not change availability")
		return
	}
	utils.Success(w, utils.M{"message": "Availability changed"})
}
