package trips

import (
	"testing"

	"wayfarer/models"
)

func fp(v float64) *float64 { return &v }

func sampleStops() []models.LocationStop {
	return []models.LocationStop{
		{Lat: 10, Lng: 10, Expenses: &models.StopExpenses{Entry: fp(100), Food: fp(50)}},
		{Lat: 20, Lng: 20, Expenses: &models.StopExpenses{Travel: fp(30), Other: fp(20)}},
		{Lat: 30, Lng: 30}, // no expenses at all
		{Lat: 40, Lng: 40, Expenses: &models.StopExpenses{Food: fp(25)}},
	}
}

func TestCalculateTripCostTotals(t *testing.T) {
	cost := CalculateTripCost(sampleStops())

	if cost.Entry != 100 {
		t.Errorf("entry = %v, want 100", cost.Entry)
	}
	if cost.Food != 75 {
		t.Errorf("food = %v, want 75", cost.Food)
	}
	if cost.Travel != 30 {
		t.Errorf("travel = %v, want 30", cost.Travel)
	}
	if cost.Other != 20 {
		t.Errorf("other = %v, want 20", cost.Other)
	}
	if cost.Total != 225 {
		t.Errorf("total = %v, want 225", cost.Total)
	}
	if got := cost.Entry + cost.Food + cost.Travel + cost.Other; got != cost.Total {
		t.Errorf("category sum %v != total %v", got, cost.Total)
	}
}

func TestCalculateTripCostOrderIndependent(t *testing.T) {
	stops := sampleStops()
	reversed := make([]models.LocationStop, len(stops))
	for i, s := range stops {
		reversed[len(stops)-1-i] = s
	}

	if CalculateTripCost(stops) != CalculateTripCost(reversed) {
		t.Error("cost summary changed after reordering stops")
	}
}

func TestCalculateTripCostEmpty(t *testing.T) {
	cost := CalculateTripCost(nil)
	if cost != (models.CostSummary{}) {
		t.Errorf("empty stop list should cost zero, got %+v", cost)
	}
}
