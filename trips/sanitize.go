package trips

import (
	"math"

	"wayfarer/models"
)

// SanitizeStops converts a raw, possibly sparse stop list from the editing UI
// into the compact form the storage layer accepts: coordinates always, every
// other field only when it carries a value. The document store penalizes null
// placeholders, so this is the serialization boundary.
func SanitizeStops(stops []models.LocationStop) []models.LocationStop {
	clean := make([]models.LocationStop, 0, len(stops))
	for _, stop := range stops {
		c := models.LocationStop{
			Lat: stop.Lat,
			Lng: stop.Lng,
		}

		if stop.Name != "" {
			c.Name = stop.Name
		}

		if len(stop.Activities) > 0 {
			c.Activities = append([]models.ActivityType(nil), stop.Activities...)
		}

		if stop.Time != nil && (stop.Time.Arrival != "" || stop.Time.Departure != "") {
			t := &models.StopTime{}
			if stop.Time.Arrival != "" {
				t.Arrival = stop.Time.Arrival
			}
			if stop.Time.Departure != "" {
				t.Departure = stop.Time.Departure
			}
			c.Time = t
		}

		if stop.Expenses != nil {
			e := &models.StopExpenses{
				Entry:  finiteOrNil(stop.Expenses.Entry),
				Food:   finiteOrNil(stop.Expenses.Food),
				Travel: finiteOrNil(stop.Expenses.Travel),
				Other:  finiteOrNil(stop.Expenses.Other),
			}
			if e.Entry != nil || e.Food != nil || e.Travel != nil || e.Other != nil {
				c.Expenses = e
			}
		}

		clean = append(clean, c)
	}
	return clean
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	f := *v
	return &f
}
