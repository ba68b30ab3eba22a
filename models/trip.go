package models

import "time"

// ActivityType is the closed set of things a traveller can do at a stop.
type ActivityType string

const (
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityHiking      ActivityType = "hiking"
	ActivityFood        ActivityType = "food"
	ActivityMeetup      ActivityType = "meetup"
	ActivityCustom      ActivityType = "custom"
)

// TravelMode selects the routing profile and the assumed average speed.
type TravelMode string

const (
	ModeCar       TravelMode = "car"
	ModeMotorbike TravelMode = "motorbike"
	ModeBicycle   TravelMode = "bicycle"
	ModeWalk      TravelMode = "walk"
)

func (m TravelMode) Valid() bool {
	switch m {
	case ModeCar, ModeMotorbike, ModeBicycle, ModeWalk:
		return true
	}
	return false
}

// StopTime holds optional arrival/departure times of day ("15:04" strings).
type StopTime struct {
	Arrival   string `json:"arrival,omitempty" bson:"arrival,omitempty"`
	Departure string `json:"departure,omitempty" bson:"departure,omitempty"`
}

// StopExpenses holds optional per-category spend at a stop. Pointers so an
// absent field is distinguishable from an explicit zero.
type StopExpenses struct {
	Entry  *float64 `json:"entry,omitempty" bson:"entry,omitempty"`
	Food   *float64 `json:"food,omitempty" bson:"food,omitempty"`
	Travel *float64 `json:"travel,omitempty" bson:"travel,omitempty"`
	Other  *float64 `json:"other,omitempty" bson:"other,omitempty"`
}

// LocationStop is one waypoint in a trip. Order inside Trip.Locations is the
// visiting order.
type LocationStop struct {
	Lat        float64        `json:"lat" bson:"lat"`
	Lng        float64        `json:"lng" bson:"lng"`
	Name       string         `json:"name,omitempty" bson:"name,omitempty"`
	Activities []ActivityType `json:"activities,omitempty" bson:"activities,omitempty"`
	Time       *StopTime      `json:"time,omitempty" bson:"time,omitempty"`
	Expenses   *StopExpenses  `json:"expenses,omitempty" bson:"expenses,omitempty"`
}

// Trip is the persisted document. ShareID is both the storage key and the
// public link token.
type Trip struct {
	ShareID     string         `json:"shareid" bson:"shareid"`
	OwnerID     string         `json:"owner_id" bson:"owner_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	IsPublic    bool           `json:"is_public" bson:"is_public"`
	Locations   []LocationStop `json:"locations" bson:"locations"`
	Mode        TravelMode     `json:"mode" bson:"mode"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	Banner      string         `json:"banner,omitempty" bson:"banner,omitempty"`
}

// RouteResult is derived from the stop list and never persisted.
type RouteResult struct {
	DistanceKm  string       `json:"distance_km"`
	DurationMin int          `json:"duration_min"`
	Geometry    [][2]float64 `json:"geometry"` // (lat,lng) pairs
}

// TripEvent is published on the redis events channel when a trip changes.
type TripEvent struct {
	Action  string `json:"action"` // created / updated / deleted
	ShareID string `json:"shareid"`
	OwnerID string `json:"owner_id"`
}

// CostSummary is a pure reduction over the stops' expenses.
type CostSummary struct {
	Entry  float64 `json:"entry"`
	Food   float64 `json:"food"`
	Travel float64 `json:"travel"`
	Other  float64 `json:"other"`
	Total  float64 `json:"total"`
}
