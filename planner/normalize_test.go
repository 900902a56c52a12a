package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNormalizeNonObjectInputs(t *testing.T) {
	inputs := []any{nil, "a string", 42.0, true, []any{"x"}}
	for _, in := range inputs {
		got := Normalize(in)
		assert.Equal(t, "", got.City)
		assert.Empty(t, got.Plans)
		assert.NotNil(t, got.Plans)
	}
}

func TestNormalizeCityCoercion(t *testing.T) {
	got := Normalize(decode(t, `{"city": 99, "plans": []}`))
	assert.Equal(t, "", got.City)

	got = Normalize(decode(t, `{"city": "Chicago"}`))
	assert.Equal(t, "Chicago", got.City)
	assert.Empty(t, got.Plans)
}

func TestNormalizeDropsPlansWithoutValidDays(t *testing.T) {
	raw := `{
		"city": "Oslo",
		"plans": [
			{"title": "No itinerary at all"},
			{"title": "Empty days", "itinerary": [{"date": "2024-06-01", "timeline": []}, {"date": "2024-06-02"}]},
			{"title": "Survivor", "itinerary": [{"date": "2024-06-01", "timeline": [{"name": "Opera House"}]}]}
		]
	}`
	got := Normalize(decode(t, raw))
	require.Len(t, got.Plans, 1)
	assert.Equal(t, "Survivor", got.Plans[0].Title)
}

func TestNormalizeDropsIdentitylessStops(t *testing.T) {
	raw := `{"plans": [{"title": "T", "itinerary": [{"date": "d", "timeline": [
		{"time": "10:00", "categories": ["food"], "description": "no identity"},
		{"name": "Kept by name"},
		{"address": "Kept by address"},
		{}
	]}]}]}`
	got := Normalize(decode(t, raw))
	require.Len(t, got.Plans, 1)
	require.Len(t, got.Plans[0].Itinerary, 1)
	timeline := got.Plans[0].Itinerary[0].Timeline
	require.Len(t, timeline, 2)
	assert.Equal(t, "Kept by name", timeline[0].Name)
	assert.Equal(t, "Kept by address", timeline[1].Address)
}

func TestNormalizeTitlePrecedence(t *testing.T) {
	day := `"itinerary": [{"date": "d", "timeline": [{"name": "s"}]}]`
	cases := []struct {
		name string
		plan string
		want string
	}{
		{"explicit title", `{"title": "T", "name": "X", ` + day + `}`, "T"},
		{"name fallback", `{"name": "X", ` + day + `}`, "X"},
		{"planId fallback", `{"planId": "p1", ` + day + `}`, "p1"},
		{"literal fallback", `{` + day + `}`, "Plan"},
		{"non-string title ignored", `{"title": 7, "name": "X", ` + day + `}`, "X"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(decode(t, `{"plans": [`+tc.plan+`]}`))
			require.Len(t, got.Plans, 1)
			assert.Equal(t, tc.want, got.Plans[0].Title)
		})
	}
}

func TestNormalizePriceRange(t *testing.T) {
	cases := []struct {
		name string
		stop string
		want *string
	}{
		{"explicit priceRange wins", `{"name": "s", "priceRange": "$$$", "cost_estimate": "$ cheap"}`, ptr("$$$")},
		{"cost estimate token", `{"name": "s", "cost_estimate": "$$ per person"}`, ptr("$$")},
		{"free wording", `{"name": "s", "cost_estimate": "Free entry"}`, ptr("Free")},
		{"no dollars extractable", `{"name": "s", "cost_estimate": "around twenty euros"}`, ptr("Free")},
		{"runaway dollars clamped", `{"name": "s", "cost_estimate": "$$$$$$ omakase"}`, ptr("$$$$")},
		{"neither field", `{"name": "s"}`, nil},
		{"non-string cost estimate", `{"name": "s", "cost_estimate": 20}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := `{"plans": [{"itinerary": [{"timeline": [` + tc.stop + `]}]}]}`
			got := Normalize(decode(t, raw))
			require.Len(t, got.Plans, 1)
			stop := got.Plans[0].Itinerary[0].Timeline[0]
			if tc.want == nil {
				assert.Nil(t, stop.PriceRange)
			} else {
				require.NotNil(t, stop.PriceRange)
				assert.Equal(t, *tc.want, *stop.PriceRange)
			}
		})
	}
}

func TestNormalizeFairnessAndSummary(t *testing.T) {
	raw := `{"plans": [{
		"itinerary": [{"timeline": [{"name": "s"}]}],
		"fairnessScores": {"u1": 80, "u2": "not a number", "u3": 92.5},
		"avgFairnessIndex": 86.25,
		"summary": {"durationHours": 6, "totalDistanceKm": 12.4, "satisfaction": {"u1": 0.8}, "avgFairnessIndex": 0.86},
		"totalBudgetEstimate": "$120",
		"badge": ["chill", 3, "walkable"],
		"tips": "bring an umbrella"
	}]}`
	got := Normalize(decode(t, raw))
	require.Len(t, got.Plans, 1)
	plan := got.Plans[0]

	assert.Equal(t, map[string]float64{"u1": 80, "u3": 92.5}, plan.FairnessScores)
	require.NotNil(t, plan.AvgFairnessIndex)
	// Plan-level index runs on the 0-100 scale, summary-level on 0-1;
	// both are intentionally passed through unchanged.
	assert.Equal(t, 86.25, *plan.AvgFairnessIndex)
	require.NotNil(t, plan.Summary)
	assert.Equal(t, 6.0, plan.Summary.DurationHours)
	assert.Equal(t, 12.4, plan.Summary.TotalDistanceKM)
	require.NotNil(t, plan.Summary.AvgFairnessIndex)
	assert.Equal(t, 0.86, *plan.Summary.AvgFairnessIndex)
	assert.Equal(t, []string{"chill", "walkable"}, plan.Badge)
	assert.Equal(t, "$120", plan.TotalBudgetEstimate)
	assert.Equal(t, "bring an umbrella", plan.Tips)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := `{"city": "Chicago", "plans": [{
		"name": "Weekend Trip",
		"itinerary": [{"date": "2024-06-01", "timeline": [
			{"time": "09:00", "name": "Millennium Park", "address": "201 E Randolph St", "cost_estimate": "Free entry"},
			{"name": "Girl & the Goat", "address": "809 W Randolph St", "cost_estimate": "$$$ per person"}
		]}]
	}]}`
	first := Normalize(decode(t, raw))

	reserialized, err := json.Marshal(first)
	require.NoError(t, err)
	var round any
	require.NoError(t, json.Unmarshal(reserialized, &round))
	second := Normalize(round)

	assert.Equal(t, first, second)
}

func TestNormalizeJSONGarbage(t *testing.T) {
	got := NormalizeJSON([]byte(`{"city": not json`))
	assert.Equal(t, "", got.City)
	assert.Empty(t, got.Plans)
}

func TestNormalizeEndToEndScenario(t *testing.T) {
	raw := `{"city": "Chicago", "plans": [{"name": "Weekend Trip", "itinerary": [
		{"date": "2024-06-01", "timeline": [
			{"name": "Millennium Park", "address": "201 E Randolph St"},
			{}
		]}
	]}]}`
	got := Normalize(decode(t, raw))

	assert.Equal(t, "Chicago", got.City)
	require.Len(t, got.Plans, 1)
	assert.Equal(t, "Weekend Trip", got.Plans[0].Title)
	require.Len(t, got.Plans[0].Itinerary, 1)
	day := got.Plans[0].Itinerary[0]
	assert.Equal(t, "2024-06-01", day.Date)
	require.Len(t, day.Timeline, 1)
	assert.Equal(t, "Millennium Park", day.Timeline[0].Name)
}

func ptr(s string) *string { return &s }
