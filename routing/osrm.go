package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"wayfarer/models"
)

const defaultBaseURL = "https://router.project-osrm.org"

// Speed in km/h assumed per travel mode. Duration is always derived from
// these, never from the provider's traffic-aware estimate.
var speedKmph = map[models.TravelMode]float64{
	models.ModeCar:       50,
	models.ModeMotorbike: 45,
	models.ModeBicycle:   15,
	models.ModeWalk:      5,
}

// Profile maps a travel mode to the provider's routing profile. Motorbike
// shares the car profile upstream but keeps its own speed constant.
func Profile(mode models.TravelMode) string {
	switch mode {
	case models.ModeWalk:
		return "foot"
	case models.ModeBicycle:
		return "bike"
	default:
		return "car"
	}
}

func Speed(mode models.TravelMode) float64 {
	if s, ok := speedKmph[mode]; ok {
		return s
	}
	return speedKmph[models.ModeCar]
}

// Estimator resolves road routes through an OSRM-compatible provider.
type Estimator struct {
	BaseURL string
	Client  *http.Client
}

func NewEstimator() *Estimator {
	base := os.Getenv("OSRM_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Estimator{
		BaseURL: base,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng,lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Estimate returns the derived route for the given stops and mode, or nil
// when no route can be produced. A nil result is a valid empty state, not an
// error: fewer than two stops, network failures, non-200 responses, and empty
// route sets all collapse into it. No retry is performed here; the next edit
// issues a fresh request.
func (e *Estimator) Estimate(ctx context.Context, stops []models.LocationStop, mode models.TravelMode) *models.RouteResult {
	if len(stops) < 2 {
		return nil
	}

	// Provider wants lng,lat order, opposite of our storage convention.
	coords := make([]string, len(stops))
	for i, s := range stops {
		coords[i] = fmt.Sprintf("%v,%v", s.Lng, s.Lat)
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		e.BaseURL, Profile(mode), strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("routing: bad request: %v", err)
		return nil
	}

	res, err := e.Client.Do(req)
	if err != nil {
		log.Printf("routing: request failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Printf("routing: provider returned %d", res.StatusCode)
		return nil
	}

	var data osrmResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		log.Printf("routing: decode failed: %v", err)
		return nil
	}
	if len(data.Routes) == 0 {
		log.Printf("routing: no routes in response")
		return nil
	}

	route := data.Routes[0]
	distanceKm := route.Distance / 1000
	durationMin := int(math.Round(distanceKm / Speed(mode) * 60))

	// Flip axes back to (lat,lng) for internal consistency.
	geometry := make([][2]float64, 0, len(route.Geometry.Coordinates))
	for _, c := range route.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		geometry = append(geometry, [2]float64{c[1], c[0]})
	}

	return &models.RouteResult{
		DistanceKm:  fmt.Sprintf("%.2f", distanceKm),
		DurationMin: durationMin,
		Geometry:    geometry,
	}
}
