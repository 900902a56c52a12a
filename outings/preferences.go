package outings

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PUT /api/outings/:id/preferences — upsert the caller's preferences.
func SetPreference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := isMember(ctx, outingID, userID); !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	var pref models.Preference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	pref.OutingID = outingID
	pref.UserID = userID
	pref.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := db.PreferencesCollection.ReplaceOne(ctx, bson.M{"outingid": outingID, "userid": userID}, pref, opts)
	if err != nil {
		http.Error(w, "Error saving preferences", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pref)
}

// GET /api/outings/:id/preferences
func GetPreferences(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := isMember(ctx, outingID, userID); !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	prefs, err := utils.FindAndDecode[models.Preference](ctx, db.PreferencesCollection, bson.M{"outingid": outingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}
