package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"wayfarer/db"
	"wayfarer/globals"
	"wayfarer/models"
	"wayfarer/mq"
	"wayfarer/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// requestingUserID pulls the user id set by the auth middleware.
func requestingUserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

func validStops(stops []models.LocationStop) bool {
	for _, s := range stops {
		if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
			return false
		}
	}
	return true
}

type tripInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	IsPublic    *bool                 `json:"is_public"`
	Locations   []models.LocationStop `json:"locations"`
	Mode        models.TravelMode     `json:"mode"`
}

// POST /api/trips
func CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input tripInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !validStops(input.Locations) {
		utils.RespondWithError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}
	if input.Mode == "" {
		input.Mode = models.ModeCar
	}
	if !input.Mode.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown travel mode")
		return
	}

	trip := models.Trip{
		ShareID:     utils.GetUUID(),
		OwnerID:     userID,
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    true,
		Locations:   SanitizeStops(input.Locations),
		Mode:        input.Mode,
		CreatedAt:   time.Now(),
	}
	if input.IsPublic != nil {
		trip.IsPublic = *input.IsPublic
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.TripsCollection.InsertOne(ctx, trip); err != nil {
		http.Error(w, "Error inserting trip", http.StatusInternalServerError)
		return
	}

	mq.Emit(r.Context(), models.TripEvent{Action: "created", ShareID: trip.ShareID, OwnerID: userID})
	utils.RespondWithJSON(w, http.StatusCreated, trip)
}

// GET /api/trips
func GetTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.TripsCollection.Find(ctx, bson.M{"owner_id": userID})
	if err != nil {
		http.Error(w, "Error fetching trips", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		http.Error(w, "Error decoding trips", http.StatusInternalServerError)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// GET /api/trips/:shareid
func GetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": ps.ByName("shareid")}).Decode(&trip)
	if err != nil {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}
	if trip.OwnerID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, trip)
}

// PUT /api/trips/:shareid
func UpdateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	shareID := ps.ByName("shareid")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Trip
	if err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": shareID}).Decode(&existing); err != nil {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}
	if existing.OwnerID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var input tripInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !validStops(input.Locations) {
		utils.RespondWithError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}
	if input.Mode == "" {
		input.Mode = existing.Mode
	}
	if !input.Mode.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown travel mode")
		return
	}

	update := bson.M{"$set": bson.M{
		"title":       input.Title,
		"description": input.Description,
		"locations":   SanitizeStops(input.Locations),
		"mode":        input.Mode,
		"updated_at":  time.Now(),
	}}
	if input.IsPublic != nil {
		update["$set"].(bson.M)["is_public"] = *input.IsPublic
	}

	if _, err := db.TripsCollection.UpdateOne(ctx, bson.M{"shareid": shareID}, update); err != nil {
		http.Error(w, "Error updating trip", http.StatusInternalServerError)
		return
	}

	InvalidateShareView(shareID)
	mq.Emit(r.Context(), models.TripEvent{Action: "updated", ShareID: shareID, OwnerID: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip updated successfully"})
}

// DELETE /api/trips/:shareid
// Deletion targets the share identifier exclusively; it is the canonical
// storage key.
func DeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	shareID := ps.ByName("shareid")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	if err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": shareID}).Decode(&trip); err != nil {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}
	if trip.OwnerID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.TripsCollection.DeleteOne(ctx, bson.M{"shareid": shareID}); err != nil {
		http.Error(w, "Error deleting trip", http.StatusInternalServerError)
		return
	}

	InvalidateShareView(shareID)
	mq.Emit(r.Context(), models.TripEvent{Action: "deleted", ShareID: shareID, OwnerID: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip deleted successfully"})
}

// GET /api/trips/:shareid/cost
func GetTripCost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var trip models.Trip
	if err := db.TripsCollection.FindOne(ctx, bson.M{"shareid": ps.ByName("shareid")}).Decode(&trip); err != nil {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}
	if trip.OwnerID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, CalculateTripCost(trip.Locations))
}
