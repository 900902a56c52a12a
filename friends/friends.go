package friends

import (
	"context"
	"log"
	"net/http"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/mq"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// POST /api/friends/:userid/request
func SendFriendRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requesterID := utils.GetUserIDFromRequest(r)
	if requesterID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	targetID := ps.ByName("userid")
	if targetID == requesterID {
		http.Error(w, "Cannot befriend yourself", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var target models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": targetID}).Decode(&target); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	// A pending or accepted request in either direction blocks a new one.
	existing := db.FriendsCollection.FindOne(ctx, bson.M{
		"$or": []bson.M{
			{"from": requesterID, "to": targetID},
			{"from": targetID, "to": requesterID},
		},
		"status": bson.M{"$in": []string{models.FriendPending, models.FriendAccepted}},
	})
	if existing.Err() == nil {
		http.Error(w, "Friend request already exists", http.StatusConflict)
		return
	} else if existing.Err() != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	req := models.FriendRequest{
		RequestID: "f" + utils.GenerateRandomString(12),
		FromID:    requesterID,
		ToID:      targetID,
		Status:    models.FriendPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := db.FriendsCollection.InsertOne(ctx, req); err != nil {
		log.Printf("Failed to create friend request: %v", err)
		http.Error(w, "Failed to send friend request", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, "friend-requested", models.Index{EntityType: "friend", EntityId: req.RequestID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, req)
}

// PUT /api/friends/requests/:requestid/accept
func AcceptFriendRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	respondToRequest(w, r, ps, models.FriendAccepted, "friend-accepted")
}

// PUT /api/friends/requests/:requestid/decline
func DeclineFriendRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	respondToRequest(w, r, ps, models.FriendDeclined, "friend-declined")
}

func respondToRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params, status, event string) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requestID := ps.ByName("requestid")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Only the recipient of a pending request may answer it.
	res, err := db.FriendsCollection.UpdateOne(ctx,
		bson.M{"requestid": requestID, "to": userID, "status": models.FriendPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Failed to update friend request", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Friend request not found", http.StatusNotFound)
		return
	}

	mq.Emit(ctx, event, models.Index{EntityType: "friend", EntityId: requestID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"requestid": requestID, "status": status})
}

// DELETE /api/friends/:userid
func RemoveFriend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	friendID := ps.ByName("userid")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := db.FriendsCollection.DeleteOne(ctx, bson.M{
		"$or": []bson.M{
			{"from": userID, "to": friendID},
			{"from": friendID, "to": userID},
		},
		"status": models.FriendAccepted,
	})
	if err != nil {
		http.Error(w, "Failed to remove friend", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Friendship not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"removed": friendID})
}

// GET /api/friends
func GetFriends(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	requests, err := utils.FindAndDecode[models.FriendRequest](ctx, db.FriendsCollection, bson.M{
		"$or": []bson.M{
			{"from": userID},
			{"to": userID},
		},
		"status": models.FriendAccepted,
	})
	if err != nil {
		http.Error(w, "Failed to fetch friends", http.StatusInternalServerError)
		return
	}

	friendIDs := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.FromID == userID {
			friendIDs = append(friendIDs, req.ToID)
		} else {
			friendIDs = append(friendIDs, req.FromID)
		}
	}

	friends := []models.UserSummary{}
	if len(friendIDs) > 0 {
		friends, err = utils.FindAndDecode[models.UserSummary](ctx, db.UserCollection, bson.M{"userid": bson.M{"$in": friendIDs}})
		if err != nil {
			http.Error(w, "Failed to fetch friends", http.StatusInternalServerError)
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, friends)
}

// GET /api/friends/requests
func GetPendingRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	requests, err := utils.FindAndDecode[models.FriendRequest](ctx, db.FriendsCollection, bson.M{
		"to":     userID,
		"status": models.FriendPending,
	})
	if err != nil {
		http.Error(w, "Failed to fetch friend requests", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, requests)
}
