package outings

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/mq"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// POST /api/outings
func CreateOuting(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var outing models.Outing
	if err := json.NewDecoder(r.Body).Decode(&outing); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if outing.Name == "" {
		http.Error(w, "Outing name is required", http.StatusBadRequest)
		return
	}

	outing.OutingID = "o" + utils.GenerateRandomString(13)
	outing.CreatedBy = userID
	outing.Members = []string{userID}
	outing.InviteCode = utils.GetUUID()
	if outing.Status == "" {
		outing.Status = "Draft"
	}
	outing.CreatedAt = time.Now()
	outing.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.OutingsCollection.InsertOne(ctx, outing); err != nil {
		http.Error(w, "Error creating outing", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, "outing-created", models.Index{EntityType: "outing", EntityId: outing.OutingID, Method: "POST", ItemId: userID, ItemType: "user"})

	utils.RespondWithJSON(w, http.StatusCreated, outing)
}

// GET /api/outings
func GetOutings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 10, 100)
	filter := bson.M{"members": userID, "deleted": bson.M{"$ne": true}}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	outings, err := utils.FindAndDecode[models.Outing](ctx, db.OutingsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching outings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, outings)
}

// GET /api/outings/:id
func GetOuting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var outing models.Outing
	err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": ps.ByName("id"), "deleted": bson.M{"$ne": true}}).Decode(&outing)
	if err != nil {
		http.Error(w, "Outing not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, outing)
}

// PUT /api/outings/:id
func UpdateOuting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Outing
	if err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": outingID}).Decode(&existing); err != nil {
		http.Error(w, "Outing not found", http.StatusNotFound)
		return
	}
	if existing.CreatedBy != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var updated models.Outing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        updated.Name,
		"description": updated.Description,
		"city":        updated.City,
		"date":        updated.Date,
		"status":      updated.Status,
		"updated_at":  time.Now(),
	}}

	if _, err := db.OutingsCollection.UpdateOne(ctx, bson.M{"outingid": outingID}, update); err != nil {
		http.Error(w, "Error updating outing", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Outing updated successfully"})
}

// DELETE /api/outings/:id
func DeleteOuting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var outing models.Outing
	if err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": outingID}).Decode(&outing); err != nil {
		http.Error(w, "Outing not found", http.StatusNotFound)
		return
	}
	if outing.CreatedBy != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	update := bson.M{"$set": bson.M{"deleted": true}}
	if _, err := db.OutingsCollection.UpdateOne(ctx, bson.M{"outingid": outingID}, update); err != nil {
		http.Error(w, "Error deleting outing", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"message": "Outing deleted successfully"})
}

// POST /api/invites/join — body carries the invite code.
func JoinOuting(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.InviteCode == "" {
		http.Error(w, "Invite code is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var outing models.Outing
	err := db.OutingsCollection.FindOne(ctx, bson.M{"invite_code": input.InviteCode, "deleted": bson.M{"$ne": true}}).Decode(&outing)
	if err != nil {
		http.Error(w, "Invalid invite code", http.StatusNotFound)
		return
	}

	_, err = db.OutingsCollection.UpdateOne(ctx,
		bson.M{"outingid": outing.OutingID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		http.Error(w, "Error joining outing", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bson.M{"outingid": outing.OutingID, "joined": true})
}

// GET /api/outings/:id/members
func GetMembers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var outing models.Outing
	if err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": ps.ByName("id")}).Decode(&outing); err != nil {
		http.Error(w, "Outing not found", http.StatusNotFound)
		return
	}

	opts := options.Find().SetProjection(bson.M{"userid": 1, "username": 1, "bio": 1, "avatar_url": 1})
	members, err := utils.FindAndDecode[models.UserSummary](ctx, db.UserCollection, bson.M{"userid": bson.M{"$in": outing.Members}}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching members")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, members)
}

// isMember reports whether userID belongs to the outing.
func isMember(ctx context.Context, outingID, userID string) (models.Outing, bool) {
	var outing models.Outing
	err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": outingID, "deleted": bson.M{"$ne": true}}).Decode(&outing)
	if err != nil {
		return outing, false
	}
	return outing, utils.Contains(outing.Members, userID)
}
