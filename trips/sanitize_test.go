package trips

import (
	"math"
	"reflect"
	"testing"

	"wayfarer/models"
)

func TestSanitizeStopsDropsEmptyFields(t *testing.T) {
	nan := math.NaN()
	raw := []models.LocationStop{
		{
			Lat:        10,
			Lng:        20,
			Name:       "",
			Activities: []models.ActivityType{},
			Time:       &models.StopTime{},
			Expenses:   &models.StopExpenses{Entry: &nan},
		},
	}

	clean := SanitizeStops(raw)
	if len(clean) != 1 {
		t.Fatalf("got %d stops, want 1", len(clean))
	}

	stop := clean[0]
	if stop.Lat != 10 || stop.Lng != 20 {
		t.Errorf("coordinates not preserved: %+v", stop)
	}
	if stop.Name != "" {
		t.Errorf("empty name should stay empty, got %q", stop.Name)
	}
	if stop.Activities != nil {
		t.Errorf("empty activities should be dropped, got %v", stop.Activities)
	}
	if stop.Time != nil {
		t.Errorf("empty time should be dropped, got %+v", stop.Time)
	}
	if stop.Expenses != nil {
		t.Errorf("all-NaN expenses should be dropped, got %+v", stop.Expenses)
	}
}

func TestSanitizeStopsKeepsPresentFields(t *testing.T) {
	inf := math.Inf(1)
	raw := []models.LocationStop{
		{
			Lat:        1,
			Lng:        2,
			Name:       "Harbour",
			Activities: []models.ActivityType{models.ActivityFood},
			Time:       &models.StopTime{Arrival: "09:00"},
			Expenses:   &models.StopExpenses{Food: fp(12.5), Other: &inf},
		},
	}

	clean := SanitizeStops(raw)
	stop := clean[0]

	if stop.Name != "Harbour" {
		t.Errorf("name = %q, want Harbour", stop.Name)
	}
	if len(stop.Activities) != 1 || stop.Activities[0] != models.ActivityFood {
		t.Errorf("activities = %v", stop.Activities)
	}
	if stop.Time == nil || stop.Time.Arrival != "09:00" || stop.Time.Departure != "" {
		t.Errorf("time = %+v", stop.Time)
	}
	if stop.Expenses == nil || stop.Expenses.Food == nil || *stop.Expenses.Food != 12.5 {
		t.Errorf("expenses = %+v", stop.Expenses)
	}
	if stop.Expenses.Other != nil {
		t.Errorf("non-finite expense should be dropped, got %v", *stop.Expenses.Other)
	}
}

func TestSanitizeStopsIdempotent(t *testing.T) {
	raw := []models.LocationStop{
		{Lat: 10, Lng: 20, Name: "A", Expenses: &models.StopExpenses{Entry: fp(5)}},
		{Lat: 30, Lng: 40, Time: &models.StopTime{Departure: "17:30"}},
		{Lat: 50, Lng: 60},
	}

	once := SanitizeStops(raw)
	twice := SanitizeStops(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
