package auth

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
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates a client account and returns a signed token.
func RegisterUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.Fail(w, "Please fill in all fields")
		return
	}
	if !utils.IsValidEmail(input.Email) {
		utils.Fail(w, "Enter a valid email")
		return
	}
	if len(input.Password) < 8 {
		utils.Fail(w, "Password must be at least 8 characters long")
		return
	}

	ctx := r.Context()
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		utils.Fail(w, "An account with this email already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("auth: lookup user: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: hash password: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomDigitString(12),
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      []string{"user"},
		CreatedAt: time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Printf("auth: insert user: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	token, err := signToken(user.Name, user.UserID, user.Role)
	if err != nil {
		log.Printf("auth: sign token: %v", err)
		utils.Fail(w, "Registration failed")
		return
	}

	utils.Success(w, utils.M{"token": token})
}

// LoginUser checks credentials and returns a signed token.
func LoginUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	ctx := r.Context()
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		utils.Fail(w, "This user does not exist")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.Fail(w, "Invalid credentials")
		return
	}

	token, err := signToken(user.Name, user.UserID, user.Role)
	if err != nil {
		log.Printf("auth: sign token: %v", err)
		utils.Fail(w, "Login failed")
		return
	}

	db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)

	utils.Success(w, utils.M{"token": token})
}
