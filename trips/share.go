package trips

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"wayfarer/db"
	"wayfarer/models"
	"wayfarer/rdx"
	"wayfarer/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

const shareCacheTTL = time.Minute

func shareLink(shareID string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/trip/%s", base, shareID)
}

func shareCacheKey(shareID string) string {
	return "share:" + shareID
}

// InvalidateShareView drops the cached public view so visibility changes,
// edits, and deletions take effect immediately instead of after the TTL.
func InvalidateShareView(shareID string) {
	if err := rdx.RdxDel(shareCacheKey(shareID)); err != nil {
		log.Printf("Failed to invalidate share cache for %s: %v", shareID, err)
	}
}

// findPublicTrip loads a trip by share id, treating private and missing trips
// identically so the share token leaks nothing about private trips.
func findPublicTrip(ctx context.Context, shareID string) (*models.Trip, bool) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": shareID}).Decode(&trip)
	if err != nil || !trip.IsPublic {
		return nil, false
	}
	return &trip, true
}

// GET /api/trips/:shareid/public
// No authentication: the share id is the access token.
func GetPublicTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shareID := ps.ByName("shareid")

	cacheKey := shareCacheKey(shareID)
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, ok := findPublicTrip(ctx, shareID)
	if !ok {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}

	view := utils.M{
		"title":       trip.Title,
		"description": trip.Description,
		"locations":   trip.Locations,
		"mode":        trip.Mode,
		"cost":        CalculateTripCost(trip.Locations),
	}

	if payload, err := json.Marshal(view); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(payload), shareCacheTTL); err != nil {
			log.Printf("Failed to cache share view: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// GET /api/trips/:shareid/qr
func ShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shareID := ps.ByName("shareid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := findPublicTrip(ctx, shareID); !ok {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(shareLink(shareID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GET /api/trips/:shareid/print
// Renders the itinerary as a PDF: stop list with times and expenses, a cost
// summary, and a QR code linking back to the share view.
func PrintTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shareID := ps.ByName("shareid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trip, ok := findPublicTrip(ctx, shareID)
	if !ok {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(shareLink(shareID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, trip.Title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	if trip.Description != "" {
		pdf.MultiCell(0, 6, trip.Description, "", "", false)
		pdf.Ln(4)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Travel mode: %s", trip.Mode))
	pdf.Ln(10)

	for i, stop := range trip.Locations {
		name := stop.Name
		if name == "" {
			name = fmt.Sprintf("%.4f, %.4f", stop.Lat, stop.Lng)
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s", i+1, name))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 10)
		if stop.Time != nil {
			line := ""
			if stop.Time.Arrival != "" {
				line += "Arrive " + stop.Time.Arrival
			}
			if stop.Time.Departure != "" {
				if line != "" {
					line += "  "
				}
				line += "Depart " + stop.Time.Departure
			}
			pdf.Cell(0, 5, line)
			pdf.Ln(5)
		}
		if len(stop.Activities) > 0 {
			acts := ""
			for j, a := range stop.Activities {
				if j > 0 {
					acts += ", "
				}
				acts += string(a)
			}
			pdf.Cell(0, 5, "Activities: "+acts)
			pdf.Ln(5)
		}
		pdf.Ln(2)
	}

	cost := CalculateTripCost(trip.Locations)
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total cost: %.2f", cost.Total))
	pdf.Ln(8)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=trip-"+shareID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
