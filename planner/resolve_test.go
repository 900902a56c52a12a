package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mingle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlaceSearch struct {
	calls   int
	queries []PlaceQuery
	results []PlaceResult
	err     error
}

func (f *fakePlaceSearch) BatchResolve(_ context.Context, queries []PlaceQuery) ([]PlaceResult, error) {
	f.calls++
	f.queries = queries
	return f.results, f.err
}

func fp(v float64) *float64 { return &v }

func singleDayPlan(stops ...models.PlanStop) models.GeneratedPlan {
	return models.GeneratedPlan{
		Title:     "T",
		Itinerary: []models.PlanDay{{Date: "2024-06-01", Timeline: stops}},
	}
}

func TestResolveStopsEmptyPlanSkipsNetwork(t *testing.T) {
	fake := &fakePlaceSearch{}
	pins := ResolveStops(context.Background(), models.GeneratedPlan{Title: "T"}, fake)
	assert.Empty(t, pins)
	assert.NotNil(t, pins)
	assert.Equal(t, 0, fake.calls)
}

func TestResolveStopsCapsBatchAtForty(t *testing.T) {
	stops := make([]models.PlanStop, 45)
	for i := range stops {
		stops[i] = models.PlanStop{Name: fmt.Sprintf("Stop %d", i)}
	}
	fake := &fakePlaceSearch{}
	ResolveStops(context.Background(), singleDayPlan(stops...), fake)
	assert.Equal(t, 1, fake.calls)
	assert.Len(t, fake.queries, 40)
}

func TestResolveStopsPartialMatches(t *testing.T) {
	fake := &fakePlaceSearch{
		results: []PlaceResult{
			// Response order deliberately differs from query order, and
			// the key matching is case/whitespace insensitive.
			{Query: PlaceQuery{Name: "  GIRL & THE GOAT ", Address: "809 W Randolph St"}, Lat: fp(41.884), Lng: fp(-87.648), Address: "809 W Randolph St, Chicago, IL"},
			{Query: PlaceQuery{Name: "Millennium Park", Address: "201 E Randolph St"}, Lat: fp(41.8826), Lng: fp(-87.6226)},
			{Query: PlaceQuery{Name: "No Coordinates", Address: ""}, Lat: nil, Lng: nil},
		},
	}
	plan := singleDayPlan(
		models.PlanStop{Time: "09:00", Name: "Millennium Park", Address: "201 E Randolph St"},
		models.PlanStop{Time: "12:00", Name: "No Coordinates"},
		models.PlanStop{Time: "15:00", Name: "Never Returned", Address: "nowhere"},
		models.PlanStop{Time: "19:00", Name: "Girl & the Goat", Address: "809 W Randolph St"},
	)

	pins := ResolveStops(context.Background(), plan, fake)
	require.Len(t, pins, 2)

	assert.Equal(t, "plan:2024-06-01|09:00|Millennium Park", pins[0].ID)
	assert.Equal(t, 41.8826, pins[0].Lat)
	// No canonical address in the response; source address carries over.
	assert.Equal(t, "201 E Randolph St", pins[0].Address)

	assert.Equal(t, "plan:2024-06-01|19:00|Girl & the Goat", pins[1].ID)
	assert.Equal(t, "809 W Randolph St, Chicago, IL", pins[1].Address)
}

func TestResolveStopsFailureDegradesToEmpty(t *testing.T) {
	fake := &fakePlaceSearch{err: errors.New("gateway timeout")}
	pins := ResolveStops(context.Background(), singleDayPlan(models.PlanStop{Name: "Anywhere"}), fake)
	assert.Empty(t, pins)
	assert.NotNil(t, pins)
}

func TestSelectionStaleCommitIgnored(t *testing.T) {
	sel := NewSelection()
	assert.Equal(t, NoActivePlan, sel.ActivePlan())

	genA := sel.Activate(0)
	genB := sel.Activate(1) // user switched plans while A was in flight

	stale := []models.ResolvedPin{{ID: "plan:a"}}
	fresh := []models.ResolvedPin{{ID: "plan:b"}}

	assert.False(t, sel.Commit(genA, 0, stale))
	assert.True(t, sel.Commit(genB, 1, fresh))
	assert.Equal(t, fresh, sel.Pins())
	assert.Equal(t, 1, sel.ActivePlan())
}

func TestSelectionReselectDiscardsPins(t *testing.T) {
	sel := NewSelection()
	gen := sel.Activate(2)
	require.True(t, sel.Commit(gen, 2, []models.ResolvedPin{{ID: "plan:x"}}))
	require.Len(t, sel.Pins(), 1)

	// Re-selecting the same index is a fresh cycle with no pin cache.
	sel.Activate(2)
	assert.Empty(t, sel.Pins())

	sel.Clear()
	assert.Equal(t, NoActivePlan, sel.ActivePlan())
}

func TestResolveAndCommit(t *testing.T) {
	fake := &fakePlaceSearch{
		results: []PlaceResult{
			{Query: PlaceQuery{Name: "Millennium Park", Address: ""}, Lat: fp(41.88), Lng: fp(-87.62)},
		},
	}
	sel := NewSelection()
	pins, committed := ResolveAndCommit(context.Background(), sel, 0, singleDayPlan(models.PlanStop{Name: "Millennium Park"}), fake)
	assert.True(t, committed)
	require.Len(t, pins, 1)
	assert.Equal(t, pins, sel.Pins())
}

func TestRegistryReturnsSameSelectionPerView(t *testing.T) {
	reg := NewRegistry()
	a := reg.Get("u1", "o1")
	assert.Same(t, a, reg.Get("u1", "o1"))
	assert.NotSame(t, a, reg.Get("u2", "o1"))
}
