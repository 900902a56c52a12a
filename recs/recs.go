package recs

import (
	"context"
	"net/http"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Marker is a recommendation map marker. IDs carry the rec: prefix so
// they never collide with plan: pins on the shared map surface.
type Marker struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Category string  `json:"category,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// GET /api/outings/:id/recommendations — well-reviewed places in the
// outing's city, served independently of plan pin resolution.
func GetRecommendations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var outing models.Outing
	if err := db.OutingsCollection.FindOne(ctx, bson.M{"outingid": ps.ByName("id")}).Decode(&outing); err != nil {
		http.Error(w, "Outing not found", http.StatusNotFound)
		return
	}

	markers := []Marker{}
	if outing.City == "" {
		utils.RespondWithJSON(w, http.StatusOK, markers)
		return
	}

	opts := options.Find().SetLimit(20).SetSort(bson.D{{Key: "reviewcount", Value: -1}})
	places, err := utils.FindAndDecode[models.Place](ctx, db.PlacesCollection, bson.M{"city": outing.City}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching recommendations")
		return
	}

	for _, place := range places {
		markers = append(markers, Marker{
			ID:       "rec:" + place.PlaceID,
			Name:     place.Name,
			Address:  place.Address,
			Category: place.Category,
			Lat:      place.Lat,
			Lng:      place.Lng,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, markers)
}
