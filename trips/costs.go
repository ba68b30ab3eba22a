package trips

import "wayfarer/models"

// CalculateTripCost reduces the stops' expenses into per-category sums plus a
// grand total. Missing expense objects and fields count as zero, so the result
// is defined for every stop list and independent of visiting order.
func CalculateTripCost(stops []models.LocationStop) models.CostSummary {
	var sum models.CostSummary
	for _, stop := range stops {
		if stop.Expenses == nil {
			continue
		}
		entry := deref(stop.Expenses.Entry)
		food := deref(stop.Expenses.Food)
		travel := deref(stop.Expenses.Travel)
		other := deref(stop.Expenses.Other)

		sum.Entry += entry
		sum.Food += food
		sum.Travel += travel
		sum.Other += other
		sum.Total += entry + food + travel + other
	}
	return sum
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
