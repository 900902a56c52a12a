package planner

import (
	"context"
	"sync"

	"mingle/models"
)

// NoActivePlan is the plan index of a selection before any plan has
// been chosen.
const NoActivePlan = -1

// Selection tracks one outing view's active plan and the pins resolved
// for it. Activating a plan bumps a generation counter; a resolution
// started for an older generation can no longer commit, so a stale
// in-flight response never overwrites pins of a newer selection.
type Selection struct {
	mu         sync.Mutex
	planIdx    int
	generation uint64
	pins       []models.ResolvedPin
}

func NewSelection() *Selection {
	return &Selection{planIdx: NoActivePlan}
}

// Activate marks planIdx as the active plan, discards previous pins,
// and returns the generation token the eventual commit must present.
func (s *Selection) Activate(planIdx int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planIdx = planIdx
	s.generation++
	s.pins = nil
	return s.generation
}

// Commit installs resolved pins if the selection still matches.
// Last-write-wins keyed by plan index, not completion order.
func (s *Selection) Commit(gen uint64, planIdx int, pins []models.ResolvedPin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.planIdx != planIdx {
		return false
	}
	s.pins = pins
	return true
}

// Clear returns the selection to the no-plan state.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planIdx = NoActivePlan
	s.generation++
	s.pins = nil
}

func (s *Selection) ActivePlan() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planIdx
}

// Pins returns a copy of the committed pins.
func (s *Selection) Pins() []models.ResolvedPin {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ResolvedPin, len(s.pins))
	copy(out, s.pins)
	return out
}

// ResolveAndCommit runs the select-then-resolve cycle for one plan
// choice: activate, resolve, commit unless superseded.
func ResolveAndCommit(ctx context.Context, sel *Selection, planIdx int, plan models.GeneratedPlan, client PlaceSearch) ([]models.ResolvedPin, bool) {
	gen := sel.Activate(planIdx)
	pins := ResolveStops(ctx, plan, client)
	return pins, sel.Commit(gen, planIdx, pins)
}

// Registry hands out one Selection per user+outing view.
type Registry struct {
	mu         sync.Mutex
	selections map[string]*Selection
}

func NewRegistry() *Registry {
	return &Registry{selections: make(map[string]*Selection)}
}

func (r *Registry) Get(userID, outingID string) *Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + "|" + outingID
	sel, ok := r.selections[key]
	if !ok {
		sel = NewSelection()
		r.selections[key] = sel
	}
	return sel
}
