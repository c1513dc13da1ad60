package auth

import (
	"time"

	"mawid/globals"
	"mawid/middleware"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 12 * time.Hour

func signToken(name, id string, roles []string) (string, error) {
	claims := &middleware.Claims{
		Name:   name,
		UserID: id,
		Role:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
