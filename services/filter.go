package services

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"

	"product-reviews/models"
)

// Filter phases. Untyped so they convert to statekit.StateID.
const (
	PhaseUnfiltered = "unfiltered"
	PhaseFiltered   = "filtered"
)

const (
	eventSelect       = "select"
	eventDeselectLast = "deselect_last"
	eventClear        = "clear"
)

// FilterStore holds the star ratings selected for the current viewing session.
// Toggle and Clear are serialized by a mutex; the UNFILTERED/FILTERED phase is
// tracked by a statekit machine that always agrees with the set.
type FilterStore struct {
	mu       sync.Mutex
	selected models.StarSet
	machine  *statekit.Interpreter[models.StarSet]
}

// NewFilterStore creates an empty store in the unfiltered phase
func NewFilterStore() (*FilterStore, error) {
	builder := statekit.NewMachine[models.StarSet]("review-filter").
		WithInitial(statekit.StateID(PhaseUnfiltered))

	builder.State(PhaseUnfiltered).
		On(eventSelect).Target(PhaseFiltered).
		Done()

	builder.State(PhaseFiltered).
		On(eventDeselectLast).Target(PhaseUnfiltered).
		On(eventClear).Target(PhaseUnfiltered).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &FilterStore{machine: interpreter}, nil
}

// Toggle removes rating if selected, adds it otherwise.
// Ratings outside 1..5 return ErrInvalidRating and leave the store untouched.
func (f *FilterStore) Toggle(rating int) error {
	if !models.ValidStars(rating) {
		return fmt.Errorf("toggle %d: %w", rating, models.ErrInvalidRating)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.selected
	var err error
	if before.Has(rating) {
		f.selected, err = before.Without(rating)
	} else {
		f.selected, err = before.With(rating)
	}
	if err != nil {
		return err
	}

	switch {
	case !before.IsActive() && f.selected.IsActive():
		f.send(eventSelect)
	case before.IsActive() && !f.selected.IsActive():
		f.send(eventDeselectLast)
	}
	return nil
}

// Clear empties the selection. It reports false when there was nothing to clear.
func (f *FilterStore) Clear() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.selected.IsActive() {
		return false
	}
	f.selected = 0
	f.send(eventClear)
	return true
}

// IsActive is true iff at least one rating is selected
func (f *FilterStore) IsActive() bool {
	return f.Selection().IsActive()
}

// Selection returns an immutable snapshot of the selected ratings
func (f *FilterStore) Selection() models.StarSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// Phase returns PhaseUnfiltered or PhaseFiltered
func (f *FilterStore) Phase() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.machine.State().Value)
}

func (f *FilterStore) send(event string) {
	f.machine.Send(statekit.Event{Type: statekit.EventType(event)})
}
