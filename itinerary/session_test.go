package itinerary

import (
	"context"
	"sync"
	"testing"
	"time"

	"wayfarer/models"
)

// fakeEstimator records every estimate call and blocks it until the test
// releases a response, so response ordering is fully under test control.
type fakeEstimator struct {
	mu    sync.Mutex
	calls []*fakeCall
}

type fakeCall struct {
	stops   []models.LocationStop
	mode    models.TravelMode
	release chan *models.RouteResult
}

func (f *fakeEstimator) Estimate(_ context.Context, stops []models.LocationStop, mode models.TravelMode) *models.RouteResult {
	call := &fakeCall{
		stops:   stops,
		mode:    mode,
		release: make(chan *models.RouteResult, 1),
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return <-call.release
}

func (f *fakeEstimator) waitForCalls(t *testing.T, n int) []*fakeCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.calls) >= n {
			calls := append([]*fakeCall(nil), f.calls...)
			f.mu.Unlock()
			return calls
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %d estimate calls", n)
	return nil
}

func waitForSnapshot(t *testing.T, s *Session, want string) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last Snapshot
	for time.Now().Before(deadline) {
		last = s.Snapshot()
		if last.Distance == want {
			return last
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for snapshot distance %q, last %+v", want, last)
	return last
}

func route(distance string, duration int) *models.RouteResult {
	return &models.RouteResult{
		DistanceKm:  distance,
		DurationMin: duration,
		Geometry:    [][2]float64{{1, 1}, {2, 2}},
	}
}

func stops(n int) []models.LocationStop {
	out := make([]models.LocationStop, n)
	for i := range out {
		out[i] = models.LocationStop{Lat: float64(i * 10), Lng: float64(i * 10)}
	}
	return out
}

func TestStaleResponseDiscarded(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, nil)

	// Request 1 is in flight from session creation; edit before it resolves.
	est.waitForCalls(t, 1)
	s.Insert(models.LocationStop{Lat: 30, Lng: 30})
	calls := est.waitForCalls(t, 2)

	// The older response arrives first and must be dropped.
	calls[0].release <- route("50.00", 60)
	calls[1].release <- route("75.00", 90)

	snap := waitForSnapshot(t, s, "75.00")
	if snap.Duration != "90" {
		t.Errorf("duration = %q, want 90", snap.Duration)
	}

	// The stale result must never surface, even after settling.
	time.Sleep(50 * time.Millisecond)
	if got := s.Snapshot().Distance; got != "75.00" {
		t.Errorf("snapshot overwritten by stale response: %q", got)
	}
}

func TestDroppingBelowTwoStopsClearsSynchronously(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, nil)
	calls := est.waitForCalls(t, 1)

	s.RemoveAt(1)

	snap := s.Snapshot()
	if snap.Distance != "0" || snap.Duration != "0" || len(snap.Route) != 0 {
		t.Errorf("snapshot not cleared: %+v", snap)
	}

	// The in-flight response resolves late; the empty state must survive it.
	calls[0].release <- route("50.00", 60)
	time.Sleep(50 * time.Millisecond)
	if got := s.Snapshot().Distance; got != "0" {
		t.Errorf("empty snapshot overridden by stale response: %q", got)
	}
}

func TestNoRouteKeepsLastGoodSnapshot(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, nil)
	calls := est.waitForCalls(t, 1)
	calls[0].release <- route("50.00", 60)
	waitForSnapshot(t, s, "50.00")

	s.SetMode(models.ModeBicycle)
	calls = est.waitForCalls(t, 2)
	calls[1].release <- nil // transient failure

	time.Sleep(50 * time.Millisecond)
	if got := s.Snapshot().Distance; got != "50.00" {
		t.Errorf("transient failure cleared a valid route: %q", got)
	}
}

func TestMoveTo(t *testing.T) {
	est := &fakeEstimator{}
	initial := []models.LocationStop{
		{Lat: 1, Lng: 1, Name: "A"},
		{Lat: 2, Lng: 2, Name: "B"},
		{Lat: 3, Lng: 3, Name: "C"},
	}
	s := NewSession("t1", "u1", initial, models.ModeCar, est, nil)
	est.waitForCalls(t, 1)

	s.MoveTo(0, 2)

	got := s.Stops()
	want := []string{"B", "C", "A"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("order = [%s %s %s], want %v", got[0].Name, got[1].Name, got[2].Name, want)
		}
	}
}

func TestMoveToNoOps(t *testing.T) {
	est := &fakeEstimator{}
	initial := []models.LocationStop{
		{Lat: 1, Lng: 1, Name: "A"},
		{Lat: 2, Lng: 2, Name: "B"},
	}
	s := NewSession("t1", "u1", initial, models.ModeCar, est, nil)
	est.waitForCalls(t, 1)

	s.MoveTo(0, 0)  // same index
	s.MoveTo(5, 0)  // from out of range
	s.MoveTo(0, -1) // to out of range

	got := s.Stops()
	if got[0].Name != "A" || got[1].Name != "B" {
		t.Errorf("no-op moves changed order: [%s %s]", got[0].Name, got[1].Name)
	}
	if len(est.waitForCalls(t, 1)) != 1 {
		t.Error("no-op moves should not trigger recomputation")
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(3), models.ModeCar, est, nil)
	est.waitForCalls(t, 1)

	s.RemoveAt(-1)
	s.RemoveAt(7)

	if len(s.Stops()) != 3 {
		t.Errorf("out-of-range remove changed the list: %d stops", len(s.Stops()))
	}
}

func TestUpdateFieldAndCost(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, nil)
	est.waitForCalls(t, 1)

	name := "Museum"
	entry := 40.0
	s.UpdateField(0, StopPatch{
		Name:     &name,
		Expenses: &models.StopExpenses{Entry: &entry},
	})

	got := s.Stops()[0]
	if got.Name != "Museum" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Expenses == nil || got.Expenses.Entry == nil || *got.Expenses.Entry != 40 {
		t.Errorf("expenses = %+v", got.Expenses)
	}

	cost := s.Cost()
	if cost.Entry != 40 || cost.Total != 40 {
		t.Errorf("cost = %+v, want entry/total 40", cost)
	}

	// Field edits rerun the route derivation like any other change.
	est.waitForCalls(t, 2)

	s.UpdateField(9, StopPatch{Name: &name}) // out of range: no-op
	if s.Stops()[1].Name != "" {
		t.Error("out-of-range update modified a stop")
	}
}

func TestPublishHookReceivesInitialResolution(t *testing.T) {
	est := &fakeEstimator{}
	published := make(chan Snapshot, 4)

	// The hook is wired at construction; the first estimate may resolve
	// before NewSession returns and must still reach it.
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, func(snap Snapshot) {
		published <- snap
	})
	calls := est.waitForCalls(t, 1)
	calls[0].release <- route("50.00", 60)

	select {
	case snap := <-published:
		if snap.Distance != "50.00" || snap.Duration != "60" {
			t.Errorf("published snapshot = %+v", snap)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for published snapshot")
	}

	// Dropping below two stops publishes the empty state synchronously.
	s.RemoveAt(0)
	select {
	case snap := <-published:
		if snap.Distance != "0" || len(snap.Route) != 0 {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for empty snapshot")
	}
}

func TestModeChangePassedToEstimator(t *testing.T) {
	est := &fakeEstimator{}
	s := NewSession("t1", "u1", stops(2), models.ModeCar, est, nil)
	est.waitForCalls(t, 1)

	s.SetMode(models.ModeWalk)
	calls := est.waitForCalls(t, 2)
	if calls[1].mode != models.ModeWalk {
		t.Errorf("mode = %q, want walk", calls[1].mode)
	}
}
