package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"mawid/utils"

	"github.com/julienschmidt/httprouter"
)

// LoginAdmin checks the env-configured admin credentials and returns a
// token carrying the admin role.
func LoginAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, "Invalid input")
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || input.Email != adminEmail || input.Password != adminPassword {
		utils.Fail(w, "Invalid email or password")
		return
	}

	token, err := signToken("admin", "admin", []string{"admin"})
	if err != nil {
		log.Printf("auth: sign admin token: %v", err)
		utils.Fail(w, "Login failed")
		return
	}

	utils.Success(w, utils.M{"token": token})
}
