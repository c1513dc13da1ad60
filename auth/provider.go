package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"mawid/db"
	"mawid/filemgr"
	"mawid/models"
	"mawid/rdx"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const otpKeyPrefix = "otp:provider:"
const otpTTL = 10 * time.Minute

// LoginProvider checks provider credentials and returns a signed token.
func LoginProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	var provider models.Provider
	if err := db.ProviderCollection.FindOne(r.Context(), bson.M{"email": input.Email}).Decode(&provider); err != nil {
		utils.Fail(w, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(provider.Password), []byte(input.Password)); err != nil {
		utils.Fail(w, "Invalid email or password")
		return
	}

	token, err := signToken(provider.Name, provider.ProviderID, []string{"provider"})
	if err != nil {
		log.Printf("auth: sign provider token: %v", err)
		utils.Fail(w, "Login failed")
		return
	}

	utils.Success(w, utils.M{"token": token})
}

type providerForm struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Password   string         `json:"password"`
	Speciality string         `json:"speciality"`
	Degree     string         `json:"degree"`
	Experience string         `json:"experience"`
	About      string         `json:"about"`
	Fees       float64        `json:"fees"`
	Address    models.Address `json:"address"`
}

func readProviderForm(r *http.Request) (providerForm, bool) {
	var form providerForm
	form.Name = r.FormValue("name")
	form.Email = r.FormValue("email")
	form.Password = r.FormValue("password")
	form.Speciality = r.FormValue("speciality")
	form.Degree = r.FormValue("degree")
	form.Experience = r.FormValue("experience")
	form.About = r.FormValue("about")
	if fees, err := strconv.ParseFloat(r.FormValue("fees"), 64); err == nil {
		form.Fees = fees
	}
	if addr := r.FormValue("address"); addr != "" {
		json.Unmarshal([]byte(addr), &form.Address)
	}

	complete := form.Name != "" && form.Email != "" && form.Password != "" &&
		form.Speciality != "" && form.Degree != "" && form.Experience != "" &&
		form.About != "" && form.Fees > 0
	return form, complete
}

// RegisterProviderStep1 validates the submitted profile and emails an OTP.
// The account is only created after the OTP is verified in step 2.
func RegisterProviderStep1(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.Fail(w, "Unable to parse form")
		return
	}

	form, complete := readProviderForm(r)
	if !complete {
		utils.Fail(w, "Please fill in all fields")
		return
	}
	if !utils.IsValidEmail(form.Email) {
		utils.Fail(w, "Enter a valid email")
		return
	}
	if len(form.Password) < 8 {
		utils.Fail(w, "Password must be at least 8 characters long")
		return
	}

	ctx := r.Context()
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"email": form.Email}).Err(); err == nil {
		utils.Fail(w, "A provider with this email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		log.Printf("auth: lookup provider: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	if _, _, err := r.FormFile("image"); err != nil {
		utils.Fail(w, "Image not selected")
		return
	}

	otp := GenerateOTP(6)
	if err := rdx.SetWithExpiry(otpKeyPrefix+form.Email, otp, otpTTL); err != nil {
		log.Printf("auth: cache otp: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}
	// Audit copy; expires via TTL index.
	db.ProviderOtpCollection.DeleteMany(ctx, bson.M{"email": form.Email})
	db.ProviderOtpCollection.InsertOne(ctx, models.ProviderOTP{Email: form.Email, OTP: otp, CreatedAt: time.Now()})

	if err := SendOTPEmail(form.Email, otp); err != nil {
		log.Printf("auth: send otp email: %v", err)
		utils.Fail(w, "Could not send verification code")
		return
	}

	utils.Success(w, utils.M{
		"message":  "Verification code sent to your email",
		"tempData": form,
	})
}

// RegisterProviderStep2 verifies the OTP and creates the provider account,
// unavailable until admin approval.
func RegisterProviderStep2(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.Fail(w, "Unable to parse form")
		return
	}

	email := r.FormValue("email")
	otp := r.FormValue("otp")

	stored, err := rdx.RdxGet(otpKeyPrefix + email)
	if err != nil || stored != otp {
		utils.Fail(w, "Invalid or expired verification code")
		return
	}

	var form providerForm
	if data := r.FormValue("providerData"); data != "" {
		if err := json.Unmarshal([]byte(data), &form); err != nil {
			utils.Fail(w, "Invalid input")
			return
		}
	}

	ctx := r.Context()
	if err := db.ProviderCollection.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		utils.Fail(w, "A provider with this email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		log.Printf("auth: lookup provider: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: hash password: %v", err)
		utils.Fail(w, "Registration failed")
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
		log.Printf("auth: save provider image: %v", err)
		utils.Fail(w, "Could not save image")
		return
	}

	provider := models.Provider{
		ProviderID: "p" + utils.GenerateRandomDigitString(12),
		Name:       form.Name,
		Email:      email,
		Password:   string(hashed),
		Image:      image,
		Speciality: form.Speciality,
		Degree:     form.Degree,
		Experience: form.Experience,
		About:      form.About,
		Fees:       form.Fees,
		Address:    form.Address,
		// Unavailable until an admin approves the account.
		Available:   false,
		CreatedAt:   time.Now(),
		SlotsBooked: map[string][]string{},
	}
	if _, err := db.ProviderCollection.InsertOne(ctx, provider); err != nil {
		log.Printf("auth: insert provider: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	rdx.RdxDel(otpKeyPrefix + email)
	db.ProviderOtpCollection.DeleteMany(ctx, bson.M{"email": email})

	utils.Success(w, utils.M{"message": "Registration successful! Your account will be activated after admin approval."})
}

// ResendOTP issues a fresh verification code for a pending registration.
func ResendOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || !utils.IsValidEmail(input.Email) {
		utils.Fail(w, "Invalid email")
		return
	}

	otp := GenerateOTP(6)
	if err := rdx.SetWithExpiry(otpKeyPrefix+input.Email, otp, otpTTL); err != nil {
		log.Printf("auth: cache otp: %v", err)
		utils.Fail(w, "Could not send verification code")
		return
	}
	db.ProviderOtpCollection.DeleteMany(r.Context(), bson.M{"email": input.Email})
	db.ProviderOtpCollection.InsertOne(r.Context(), models.ProviderOTP{Email: input.Email, OTP: otp, CreatedAt: time.Now()})

	if err := SendOTPEmail(input.Email, otp); err != nil {
		log.Printf("auth: send otp email: %v", err)
		utils.Fail(w, "Could not send verification code")
		return
	}

	utils.Success(w, utils.M{"message": "New verification code sent"})
}
