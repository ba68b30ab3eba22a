package itinerary

import (
	"context"
	"strconv"
	"sync"

	"wayfarer/models"
	"wayfarer/trips"
)

// Estimator is what a session needs from the routing layer. A nil result
// means "no route" and is a valid outcome, not an error.
type Estimator interface {
	Estimate(ctx context.Context, stops []models.LocationStop, mode models.TravelMode) *models.RouteResult
}

// Snapshot is the latest published, internally consistent route projection.
// Distance and Duration are strings so the empty state ("0"/"0") is the same
// shape as a populated one.
type Snapshot struct {
	Route    [][2]float64 `json:"route"`
	Distance string       `json:"distance"`
	Duration string       `json:"duration"`
}

func emptySnapshot() Snapshot {
	return Snapshot{Route: [][2]float64{}, Distance: "0", Duration: "0"}
}

// StopPatch is a field-level edit to one stop. Nil fields are left untouched;
// Time and Expenses merge their present subfields into the existing value.
type StopPatch struct {
	Name       *string                `json:"name,omitempty"`
	Activities *[]models.ActivityType `json:"activities,omitempty"`
	Time       *models.StopTime       `json:"time,omitempty"`
	Expenses   *models.StopExpenses   `json:"expenses,omitempty"`
}

// Session owns the authoritative in-memory stop list and travel mode for one
// trip being edited. Every mutation triggers an asynchronous route
// recomputation guarded by a monotonically increasing request token: a
// response is applied only if its token is still the pending one, so a slow
// response for an old stop list can never overwrite the snapshot of a newer
// edit. There is no physical cancellation; superseded requests simply resolve
// into the void.
type Session struct {
	mu sync.Mutex

	ShareID string
	OwnerID string

	stops    []models.LocationStop
	mode     models.TravelMode
	snapshot Snapshot

	pending   uint64
	counter   uint64
	estimator Estimator

	// onPublish, when set, is called with each newly applied snapshot. Fixed
	// at construction; the first recompute may resolve before NewSession
	// returns, so it must never be assigned afterwards.
	onPublish func(Snapshot)
}

func NewSession(shareID, ownerID string, stops []models.LocationStop, mode models.TravelMode, est Estimator, onPublish func(Snapshot)) *Session {
	s := &Session{
		ShareID:   shareID,
		OwnerID:   ownerID,
		stops:     append([]models.LocationStop(nil), stops...),
		mode:      mode,
		snapshot:  emptySnapshot(),
		estimator: est,
		onPublish: onPublish,
	}
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
	return s
}

// Insert appends a stop at the end of the list (map click adds a stop).
func (s *Session) Insert(stop models.LocationStop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = append(s.stops, stop)
	s.recomputeLocked()
}

// RemoveAt deletes the stop at index. Out of range is a no-op to tolerate
// late-arriving UI events on stale indices.
func (s *Session) RemoveAt(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.stops) {
		return
	}
	s.stops = append(s.stops[:index:index], s.stops[index+1:]...)
	s.recomputeLocked()
}

// MoveTo removes the stop at from and reinserts it at to in the resulting
// list, shifting the others. from == to and out-of-range indices are no-ops.
func (s *Session) MoveTo(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.stops)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return
	}
	moved := s.stops[from]
	rest := append(append([]models.LocationStop{}, s.stops[:from]...), s.stops[from+1:]...)
	s.stops = append(append(append([]models.LocationStop{}, rest[:to]...), moved), rest[to:]...)
	s.recomputeLocked()
}

// UpdateField applies an in-place edit to the stop at index. Out of range is
// a no-op.
func (s *Session) UpdateField(index int, patch StopPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.stops) {
		return
	}
	stop := &s.stops[index]

	if patch.Name != nil {
		stop.Name = *patch.Name
	}
	if patch.Activities != nil {
		stop.Activities = append([]models.ActivityType(nil), (*patch.Activities)...)
	}
	if patch.Time != nil {
		if stop.Time == nil {
			stop.Time = &models.StopTime{}
		}
		if patch.Time.Arrival != "" {
			stop.Time.Arrival = patch.Time.Arrival
		}
		if patch.Time.Departure != "" {
			stop.Time.Departure = patch.Time.Departure
		}
	}
	if patch.Expenses != nil {
		if stop.Expenses == nil {
			stop.Expenses = &models.StopExpenses{}
		}
		if patch.Expenses.Entry != nil {
			stop.Expenses.Entry = patch.Expenses.Entry
		}
		if patch.Expenses.Food != nil {
			stop.Expenses.Food = patch.Expenses.Food
		}
		if patch.Expenses.Travel != nil {
			stop.Expenses.Travel = patch.Expenses.Travel
		}
		if patch.Expenses.Other != nil {
			stop.Expenses.Other = patch.Expenses.Other
		}
	}
	s.recomputeLocked()
}

// SetMode switches the travel mode and rederives the route.
func (s *Session) SetMode(mode models.TravelMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.recomputeLocked()
}

// recomputeLocked runs the route transition for the current stop list. Caller
// holds s.mu. Below two stops the snapshot is cleared synchronously and no
// request is issued; the minted token still advances so any in-flight
// response goes stale.
func (s *Session) recomputeLocked() {
	s.counter++
	token := s.counter
	s.pending = token

	if len(s.stops) < 2 {
		s.snapshot = emptySnapshot()
		s.publishLocked()
		return
	}

	stops := append([]models.LocationStop(nil), s.stops...)
	mode := s.mode
	go func() {
		result := s.estimator.Estimate(context.Background(), stops, mode)
		s.resolve(token, result)
	}()
}

// resolve applies a routing response if its token has not been superseded.
// A nil result keeps the previous snapshot: a transient failure must not
// clear a previously valid route.
func (s *Session) resolve(token uint64, result *models.RouteResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.pending {
		return
	}
	if result == nil {
		return
	}
	geometry := result.Geometry
	if geometry == nil {
		geometry = [][2]float64{}
	}
	s.snapshot = Snapshot{
		Route:    geometry,
		Distance: result.DistanceKm,
		Duration: strconv.Itoa(result.DurationMin),
	}
	s.publishLocked()
}

func (s *Session) publishLocked() {
	if s.onPublish != nil {
		s.onPublish(s.snapshot)
	}
}

// Snapshot returns the latest published route projection.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Stops returns a copy of the current stop list.
func (s *Session) Stops() []models.LocationStop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LocationStop(nil), s.stops...)
}

func (s *Session) Mode() models.TravelMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Cost recomputes the cost summary synchronously; unlike routing there is no
// network round-trip, so no token dance is needed.
func (s *Session) Cost() models.CostSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return trips.CalculateTripCost(s.stops)
}
