package middleware

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"mawid/globals"
	"mawid/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const notAuthorizedMsg = "Not authorized, Login again"

// JWT claims
type Claims struct {
	Name   string   `json:"name"`
	UserID string   `json:"userId"`
	Role   []string `json:"role"`
	jwt.RegisteredClaims
}

func parseBearer(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("missing or malformed token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func ValidateJWT(authHeader string) (*Claims, error) {
	if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
		return nil, fmt.Errorf("invalid token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(authHeader[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized")
	}
	return claims, nil
}

func authenticateRole(role string, key globals.ContextKey, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := parseBearer(r)
		if err != nil || !slices.Contains(claims.Role, role) {
			// Domain failures never use HTTP error codes.
			utils.Fail(w, notAuthorizedMsg)
			return
		}
		ctx := context.WithValue(r.Context(), key, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, role)
		next(w, r.WithContext(ctx), ps)
	}
}

// AuthenticateUser admits client accounts and stores the user id in context.
func AuthenticateUser(next httprouter.Handle) httprouter.Handle {
	return authenticateRole("user", globals.UserIDKey, next)
}

// AuthenticateProvider admits provider accounts and stores the provider id.
func AuthenticateProvider(next httprouter.Handle) httprouter.Handle {
	return authenticateRole("provider", globals.ProviderIDKey, next)
}

// AuthenticateAdmin admits the admin account.
func AuthenticateAdmin(next httprouter.Handle) httprouter.Handle {
	return authenticateRole("admin", globals.UserIDKey, next)
}

// OptionalAuth stores the user id in context when a valid token is present
// and proceeds regardless.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := parseBearer(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, claims.UserID))
		}
		next(w, r, ps)
	}
}
