package profile

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mingle/db"
	"mingle/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const avatarSize = 240

// POST /api/profile/avatar
func UploadAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "Avatar file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}

	// Square crop then downscale keeps faces centered on any aspect ratio.
	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	dir := avatarDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Failed to create avatar dir: %v", err)
		http.Error(w, "Failed to save avatar", http.StatusInternalServerError)
		return
	}

	path := filepath.Join(dir, userID+".jpg")
	if err := imaging.Save(thumb, path, imaging.JPEGQuality(85)); err != nil {
		log.Printf("Failed to save avatar for %s: %v", userID, err)
		http.Error(w, "Failed to save avatar", http.StatusInternalServerError)
		return
	}

	avatarURL := "/static/userpic/" + userID + ".jpg"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"avatar_url": avatarURL, "updated_at": time.Now()}},
	); err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"avatar_url": avatarURL})
}
