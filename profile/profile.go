package profile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/rdx"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/profile
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0, "refresh_token": 0})
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID, "deleted": bson.M{"$ne": true}}, opts).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GET /api/user/:username
func GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	username := ps.ByName("username")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.UserSummary
	if err := db.UserCollection.FindOne(ctx, bson.M{"username": username, "deleted": bson.M{"$ne": true}}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

type profileUpdate struct {
	Bio      *string `json:"bio"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

// PUT /api/profile
func EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Username != nil && *update.Username != "" {
		set["username"] = *update.Username
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("Failed to update profile for %s: %v", userID, err)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if update.Username != nil && *update.Username != "" {
		if err := rdx.RdxSet("users:"+userID, *update.Username); err != nil {
			log.Printf("Failed to refresh username cache: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": true})
}

// DELETE /api/profile
func DeleteProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Soft delete so chat history and outing membership stay resolvable.
	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil || res.MatchedCount == 0 {
		http.Error(w, "Failed to delete profile", http.StatusInternalServerError)
		return
	}

	if _, err := rdx.RdxHdel("tokki", userID); err != nil {
		log.Printf("Failed to revoke token for %s: %v", userID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": true})
}

func avatarDir() string {
	dir := os.Getenv("STATIC_DIR")
	if dir == "" {
		dir = "static"
	}
	return filepath.Join(dir, "userpic")
}
