package planner

import (
	"context"
	"log"
	"strings"

	"mingle/models"
)

// Hard cap on stops per resolution call; excess stops stay visible in
// the itinerary text view but are not plotted.
const maxResolveStops = 40

type PlaceQuery struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PlaceResult is one record from the place-search collaborator. The
// service guarantees neither ordering nor one result per query; missed
// lookups are simply absent.
type PlaceResult struct {
	Query   PlaceQuery `json:"query"`
	Lat     *float64   `json:"lat"`
	Lng     *float64   `json:"lng"`
	Address string     `json:"address"`
	Photo   string     `json:"photo,omitempty"`
}

type PlaceSearch interface {
	BatchResolve(ctx context.Context, queries []PlaceQuery) ([]PlaceResult, error)
}

// ResolveStops geocodes a plan's stops with a single batched call and
// returns map pins for every stop the collaborator located. Best
// effort: every failure degrades to an empty pin list so the itinerary
// text view still renders.
func ResolveStops(ctx context.Context, plan models.GeneratedPlan, client PlaceSearch) []models.ResolvedPin {
	type flatStop struct {
		date string
		stop models.PlanStop
	}

	var flattened []flatStop
	for _, day := range plan.Itinerary {
		for _, stop := range day.Timeline {
			flattened = append(flattened, flatStop{date: day.Date, stop: stop})
		}
	}
	if len(flattened) > maxResolveStops {
		flattened = flattened[:maxResolveStops]
	}

	pins := []models.ResolvedPin{}
	if len(flattened) == 0 {
		return pins
	}

	queries := make([]PlaceQuery, 0, len(flattened))
	for _, fs := range flattened {
		queries = append(queries, PlaceQuery{Name: fs.stop.Name, Address: fs.stop.Address})
	}

	results, err := client.BatchResolve(ctx, queries)
	if err != nil {
		log.Printf("stop resolution failed: %v", err)
		return pins
	}

	lookup := make(map[string]PlaceResult, len(results))
	for _, res := range results {
		lookup[lookupKey(res.Query.Name, res.Query.Address)] = res
	}

	for _, fs := range flattened {
		res, ok := lookup[lookupKey(fs.stop.Name, fs.stop.Address)]
		if !ok || res.Lat == nil || res.Lng == nil {
			continue
		}
		address := res.Address
		if address == "" {
			address = fs.stop.Address
		}
		pins = append(pins, models.ResolvedPin{
			// Distinct from rec:-prefixed recommendation markers on
			// the same map surface.
			ID:      "plan:" + fs.date + "|" + fs.stop.Time + "|" + fs.stop.Name,
			Name:    fs.stop.Name,
			Address: address,
			Lat:     *res.Lat,
			Lng:     *res.Lng,
		})
	}
	return pins
}

// lookupKey correlates a response record back to its originating stop.
func lookupKey(name, address string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(address))
}
