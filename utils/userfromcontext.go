package utils

import (
	"net/http"

	"mingle/globals"
	"mingle/middleware"
)

// GetUserIDFromRequest reads the request-scoped identity the auth
// middleware stored; empty string when unauthenticated.
func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUsernameFromRequest(r *http.Request) string {
	tokenString := r.Header.Get("Authorization")
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil {
		return ""
	}
	return claims.Username
}
