package itinerary

import (
	"context"
	"errors"
	"sync"
	"time"

	"wayfarer/db"
	"wayfarer/models"
	"wayfarer/mq"
	"wayfarer/trips"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound  = errors.New("trip not found")
	ErrForbidden = errors.New("not the trip owner")
	ErrNoSession = errors.New("no open session")
)

// Manager keeps one editing session per trip. Sessions live in memory; the
// trip document is only touched on open and save, so persistence failures
// never corrupt the in-memory itinerary.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	estimator Estimator
}

func NewManager(est Estimator) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		estimator: est,
	}
}

// Open loads the trip into a fresh session, replacing any previous session
// for the same trip. The derived route is recomputed from the stored stop
// list; it is never persisted, so this is the only way it comes into being.
func (m *Manager) Open(ctx context.Context, shareID, userID string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var trip models.Trip
	if err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": shareID}).Decode(&trip); err != nil {
		return nil, ErrNotFound
	}
	if trip.OwnerID != userID {
		return nil, ErrForbidden
	}

	session := NewSession(shareID, userID, trip.Locations, trip.Mode, m.estimator, func(snap Snapshot) {
		broadcastSnapshot(shareID, snap)
	})

	m.mu.Lock()
	m.sessions[shareID] = session
	m.mu.Unlock()

	return session, nil
}

// Get returns the open session for a trip, if any, enforcing ownership.
func (m *Manager) Get(shareID, userID string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[shareID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoSession
	}
	if session.OwnerID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// Save sanitizes the session's stop list and writes it back to the trip
// document. The session stays open and authoritative; a failed write leaves
// it untouched for the next attempt.
func (m *Manager) Save(ctx context.Context, shareID, userID string) error {
	session, err := m.Get(shareID, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"locations":  trips.SanitizeStops(session.Stops()),
		"mode":       session.Mode(),
		"updated_at": time.Now(),
	}}
	if _, err := db.TripsCollection.UpdateOne(ctx, bson.M{"shareid": shareID}, update); err != nil {
		return err
	}

	trips.InvalidateShareView(shareID)
	mq.Emit(ctx, models.TripEvent{Action: "updated", ShareID: shareID, OwnerID: userID})
	return nil
}

// Close drops the in-memory session.
func (m *Manager) Close(shareID string) {
	m.mu.Lock()
	delete(m.sessions, shareID)
	m.mu.Unlock()
}
