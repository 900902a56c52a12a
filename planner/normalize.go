package planner

import (
	"regexp"

	"mingle/models"

	json "github.com/goccy/go-json"
)

// The generator is an LLM-backed service with no schema guarantee, so
// normalization is maximal coercion: bad fields default, bad elements
// drop, nothing ever errors out.

const fallbackTitle = "Plan"

var dollarToken = regexp.MustCompile(`\$+`)

// NormalizeJSON decodes a raw generator response body and normalizes
// it. Undecodable bodies yield an empty payload.
func NormalizeJSON(data []byte) models.PlansPayload {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.PlansPayload{City: "", Plans: []models.GeneratedPlan{}}
	}
	return Normalize(raw)
}

// Normalize coerces an arbitrary decoded JSON value into a valid
// PlansPayload. Pure; never fails.
func Normalize(raw any) models.PlansPayload {
	payload := models.PlansPayload{City: "", Plans: []models.GeneratedPlan{}}

	obj, ok := raw.(map[string]any)
	if !ok {
		return payload
	}

	payload.City = asString(obj["city"])

	rawPlans, ok := obj["plans"].([]any)
	if !ok {
		return payload
	}

	for _, rp := range rawPlans {
		if plan, ok := normalizePlan(rp); ok {
			payload.Plans = append(payload.Plans, plan)
		}
	}
	return payload
}

// normalizePlan coerces one plan element. A plan survives only if at
// least one day with at least one stop survives.
func normalizePlan(raw any) (models.GeneratedPlan, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.GeneratedPlan{}, false
	}

	plan := models.GeneratedPlan{
		PlanID:              asString(obj["planId"]),
		Badge:               asStringSlice(obj["badge"]),
		Overview:            asString(obj["overview"]),
		TotalBudgetEstimate: asString(obj["totalBudgetEstimate"]),
		FairnessScores:      asScoreMap(obj["fairnessScores"]),
		AvgFairnessIndex:    asFloatPtr(obj["avgFairnessIndex"]),
		Summary:             normalizeSummary(obj["summary"]),
		Tips:                asString(obj["tips"]),
	}

	// Display title precedence: title, name, planId, fallback.
	plan.Title = asString(obj["title"])
	if plan.Title == "" {
		plan.Title = asString(obj["name"])
	}
	if plan.Title == "" {
		plan.Title = plan.PlanID
	}
	if plan.Title == "" {
		plan.Title = fallbackTitle
	}

	rawDays, _ := obj["itinerary"].([]any)
	for _, rd := range rawDays {
		if day, ok := normalizeDay(rd); ok {
			plan.Itinerary = append(plan.Itinerary, day)
		}
	}

	if len(plan.Itinerary) == 0 {
		return models.GeneratedPlan{}, false
	}
	return plan, true
}

func normalizeDay(raw any) (models.PlanDay, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.PlanDay{}, false
	}

	day := models.PlanDay{Date: asString(obj["date"])}

	rawStops, _ := obj["timeline"].([]any)
	for _, rs := range rawStops {
		if stop, ok := normalizeStop(rs); ok {
			day.Timeline = append(day.Timeline, stop)
		}
	}

	if len(day.Timeline) == 0 {
		return models.PlanDay{}, false
	}
	return day, true
}

// normalizeStop keeps a stop only if it has a name or an address;
// anything else carries no identity for map resolution.
func normalizeStop(raw any) (models.PlanStop, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.PlanStop{}, false
	}

	stop := models.PlanStop{
		Time:        asString(obj["time"]),
		Name:        asString(obj["name"]),
		Address:     asString(obj["address"]),
		Categories:  asStringSlice(obj["categories"]),
		Matches:     asStringSlice(obj["matches"]),
		Description: asString(obj["description"]),
		Notes:       asString(obj["notes"]),
	}

	if stop.Name == "" && stop.Address == "" {
		return models.PlanStop{}, false
	}

	if pr := asString(obj["priceRange"]); pr != "" {
		stop.PriceRange = &pr
	} else if cost := asString(obj["cost_estimate"]); cost != "" {
		stop.PriceRange = priceFromCostEstimate(cost)
	}

	return stop, true
}

// priceFromCostEstimate extracts a $-repeated token from a free-text
// cost estimate; anything without dollar signs (including "free"
// wording) renders as the Free badge.
func priceFromCostEstimate(cost string) *string {
	token := dollarToken.FindString(cost)
	if token == "" {
		token = "Free"
	} else if len(token) > 4 {
		token = "$$$$"
	}
	return &token
}

func normalizeSummary(raw any) *models.PlanSummary {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return &models.PlanSummary{
		DurationHours:    asFloat(obj["durationHours"]),
		TotalDistanceKM:  asFloat(obj["totalDistanceKm"]),
		Satisfaction:     asScoreMap(obj["satisfaction"]),
		AvgFairnessIndex: asFloatPtr(obj["avgFairnessIndex"]),
	}
}

// --- per-field coercion guards ---

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asScoreMap(v any) map[string]float64 {
	raw, ok := v.(map[string]any)
	if !ok {
		return map[string]float64{}
	}
	out := map[string]float64{}
	for k, e := range raw {
		if f, ok := toFloat(e); ok {
			out[k] = f
		}
	}
	return out
}

func asFloat(v any) float64 {
	f, _ := toFloat(v)
	return f
}

func asFloatPtr(v any) *float64 {
	if f, ok := toFloat(v); ok {
		return &f
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
