package models

import "time"

// PlansPayload is the normalized form of a generator response. It is
// transient: built per request, rendered, never stored as-is.
type PlansPayload struct {
	City  string          `json:"city"`
	Plans []GeneratedPlan `json:"plans"`
}

type GeneratedPlan struct {
	PlanID              string             `json:"planId,omitempty"`
	Title               string             `json:"title"`
	Badge               []string           `json:"badge"`
	Overview            string             `json:"overview"`
	Itinerary           []PlanDay          `json:"itinerary"`
	TotalBudgetEstimate string             `json:"totalBudgetEstimate,omitempty"`
	FairnessScores      map[string]float64 `json:"fairnessScores"`
	// Scale differs between plan level (0-100) and summary level (0-1)
	// in generator output; both are passed through untouched.
	AvgFairnessIndex *float64     `json:"avgFairnessIndex,omitempty"`
	Summary          *PlanSummary `json:"summary,omitempty"`
	Tips             string       `json:"tips"`
}

type PlanSummary struct {
	DurationHours    float64            `json:"durationHours,omitempty"`
	TotalDistanceKM  float64            `json:"totalDistanceKm,omitempty"`
	Satisfaction     map[string]float64 `json:"satisfaction,omitempty"`
	AvgFairnessIndex *float64           `json:"avgFairnessIndex,omitempty"`
}

type PlanDay struct {
	Date     string     `json:"date"`
	Timeline []PlanStop `json:"timeline"`
}

type PlanStop struct {
	Time        string   `json:"time"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Categories  []string `json:"categories"`
	Matches     []string `json:"matches"`
	PriceRange  *string  `json:"priceRange"`
	Description string   `json:"description"`
	Notes       string   `json:"notes,omitempty"`
}

// ResolvedPin is a map marker for one geocoded stop. Regenerated on
// every plan selection; a strict subset of the plan's stops.
type ResolvedPin struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// PlanDocument is the raw generator payload as persisted per outing,
// kept untouched so re-normalization is always possible.
type PlanDocument struct {
	OutingID  string    `json:"outingid" bson:"outingid"`
	Raw       []byte    `json:"-" bson:"raw"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
