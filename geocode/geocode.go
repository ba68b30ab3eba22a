package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"wayfarer/utils"

	"github.com/julienschmidt/httprouter"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves coordinates into human-readable place names. Every failure
// path falls back to a formatted coordinate string; callers never see an
// error.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	base := os.Getenv("NOMINATIM_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func fallbackName(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

// Reverse looks up a display name for the coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) string {
	url := fmt.Sprintf("%s/reverse?lat=%v&lon=%v&format=json", c.BaseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallbackName(lat, lng)
	}
	req.Header.Set("User-Agent", "Wayfarer/1.0")

	res, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("geocode: request failed: %v", err)
		return fallbackName(lat, lng)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Printf("geocode: provider returned %d", res.StatusCode)
		return fallbackName(lat, lng)
	}

	var data struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil || data.DisplayName == "" {
		return fallbackName(lat, lng)
	}
	return data.DisplayName
}

// GET /api/geocode/reverse?lat=..&lng=..
func (c *Client) HandleReverse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid lng")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		utils.RespondWithError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}

	name := c.Reverse(r.Context(), lat, lng)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"name": name})
}
