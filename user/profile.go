package user

import (
	"encoding/json"
	"log"
	"net/http"

	"mawid/db"
	"mawid/filemgr"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.Fail(w, "User not found")
		return
	}
	utils.Success(w, utils.M{"userData": user})
}

// UpdateProfile replaces the editable profile fields and optionally the
// profile picture.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.Fail(w, "Unable to parse form")
		return
	}

	name := r.FormValue("name")
	phone := r.FormValue("phone")
	dob := r.FormValue("dob")
	gender := r.FormValue("gender")
	if name == "" || phone == "" || dob == "" || gender == "" {
		utils.Fail(w, "Please fill in all fields")
		return
	}

	var address models.Address
	if addr := r.FormValue("address"); addr != "" {
		json.Unmarshal([]byte(addr), &address)
	}

	update := bson.M{
		"name":    name,
		"phone":   phone,
		"address": address,
		"dob":     dob,
		"gender":  gender,
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if !utils.ValidImageFileType(header) {
			utils.Fail(w, "Unsupported image type")
			return
		}
		image, err := filemgr.SaveUserImage(file)
		if err != nil {
			log.Printf("user: save image: %v", err)
			utils.Fail(w, "Could not save image")
			return
		}
		update["image"] = image
	}

	if _, err := db.UserCollection.UpdateOne(r.Context(), bson.M{"userid": userID}, bson.M{"$set": update}); err != nil {
		log.Printf("user: update profile: %v", err)
		utils.Fail(w, "Could not update profile")
		return
	}

	utils.Success(w, utils.M{"message": "Profile updated successfully"})
}
