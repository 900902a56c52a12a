package outings

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/mq"
	"mingle/placesearch"
	"mingle/plangen"
	"mingle/planner"
	"mingle/rdx"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	genClient    = plangen.New()
	searchClient = placesearch.New()
	selections   = planner.NewRegistry()
)

const rawPlanCacheTTL = 10 * time.Minute

// fetchRawPlans returns the producer payload for an outing: Redis
// cache first, then the stored copy in Mongo, then the producer
// itself. plangen.ErrNoPlans bubbles up as the normal empty state.
func fetchRawPlans(ctx context.Context, outingID string) ([]byte, error) {
	cacheKey := "plans:raw:" + outingID
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		return []byte(cached), nil
	}

	var doc models.PlanDocument
	if err := db.PlansCollection.FindOne(ctx, bson.M{"outingid": outingID}).Decode(&doc); err == nil && len(doc.Raw) > 0 {
		if err := rdx.SetWithExpiry(cacheKey, string(doc.Raw), rawPlanCacheTTL); err != nil {
			log.Printf("Failed to cache plan payload: %v", err)
		}
		return doc.Raw, nil
	}

	raw, err := genClient.FetchRaw(ctx, outingID)
	if err != nil {
		return nil, err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := db.PlansCollection.ReplaceOne(ctx, bson.M{"outingid": outingID},
		models.PlanDocument{OutingID: outingID, Raw: raw, CreatedAt: time.Now()}, opts); err != nil {
		log.Printf("Failed to store plan payload: %v", err)
	}
	if err := rdx.SetWithExpiry(cacheKey, string(raw), rawPlanCacheTTL); err != nil {
		log.Printf("Failed to cache plan payload: %v", err)
	}
	return raw, nil
}

// GET /api/outings/:id/plans — normalized candidate plans. "Nothing
// generated yet" is a normal state, served as an empty payload.
func GetOutingPlans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, ok := isMember(ctx, outingID, userID); !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	raw, err := fetchRawPlans(ctx, outingID)
	if err != nil {
		if !errors.Is(err, plangen.ErrNoPlans) {
			log.Printf("Plan fetch failed for %s: %v", outingID, err)
		}
		utils.RespondWithJSON(w, http.StatusOK, models.PlansPayload{City: "", Plans: []models.GeneratedPlan{}})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, planner.NormalizeJSON(raw))
}

// POST /api/outings/:id/plans — the producer (or an admin tool) stores
// a freshly generated payload. Body is kept verbatim; normalization
// happens on read.
func StoreOutingPlans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	outingID := ps.ByName("id")

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := db.PlansCollection.ReplaceOne(ctx, bson.M{"outingid": outingID},
		models.PlanDocument{OutingID: outingID, Raw: raw, CreatedAt: time.Now()}, opts); err != nil {
		http.Error(w, "Error storing plans", http.StatusInternalServerError)
		return
	}
	if err := rdx.RdxDel("plans:raw:" + outingID); err != nil {
		log.Printf("Failed to invalidate plan cache: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, bson.M{"outingid": outingID, "stored": true})
}

// POST /api/outings/:id/plans/:index/select — activate one plan and
// resolve its stops to map pins. Resolution is best effort: failures
// return an empty pin list, never an error status.
func SelectPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	planIdx, err := strconv.Atoi(ps.ByName("index"))
	if err != nil || planIdx < 0 {
		http.Error(w, "Invalid plan index", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if _, ok := isMember(ctx, outingID, userID); !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	raw, err := fetchRawPlans(ctx, outingID)
	if err != nil {
		http.Error(w, "No plans available for this outing", http.StatusNotFound)
		return
	}

	payload := planner.NormalizeJSON(raw)
	if planIdx >= len(payload.Plans) {
		http.Error(w, "Plan index out of range", http.StatusNotFound)
		return
	}

	sel := selections.Get(userID, outingID)
	pins, committed := planner.ResolveAndCommit(ctx, sel, planIdx, payload.Plans[planIdx], searchClient)

	mq.Emit(ctx, "plan-selected", models.Index{EntityType: "outing", EntityId: outingID, Method: "POST", ItemId: userID, ItemType: "user"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"planIndex": planIdx,
		"pins":      pins,
		"committed": committed,
	})
}

// GET /api/outings/:id/pins — pins committed for the caller's active
// plan. Empty until a plan is selected or when resolution found
// nothing; recommendation markers are served independently.
func GetPins(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sel := selections.Get(userID, ps.ByName("id"))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"planIndex": sel.ActivePlan(),
		"pins":      sel.Pins(),
	})
}
