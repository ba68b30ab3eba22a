package itinerary

import (
	"encoding/json"
	"net/http"
	"strconv"

	"wayfarer/globals"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/julienschmidt/httprouter"
)

func requestingUserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch err {
	case ErrNotFound, ErrNoSession:
		http.Error(w, "Trip not found", http.StatusNotFound)
	case ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func sessionView(s *Session) utils.M {
	return utils.M{
		"shareid":  s.ShareID,
		"stops":    s.Stops(),
		"mode":     s.Mode(),
		"snapshot": s.Snapshot(),
		"cost":     s.Cost(),
	}
}

// POST /api/itinerary/:shareid/open
func (m *Manager) HandleOpen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Open(r.Context(), ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// GET /api/itinerary/:shareid
func (m *Manager) HandleGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// POST /api/itinerary/:shareid/stops
func (m *Manager) HandleInsert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	var stop models.LocationStop
	if err := json.NewDecoder(r.Body).Decode(&stop); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if stop.Lat < -90 || stop.Lat > 90 || stop.Lng < -180 || stop.Lng > 180 {
		utils.RespondWithError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}

	session.Insert(stop)
	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// DELETE /api/itinerary/:shareid/stops/:idx
func (m *Manager) HandleRemove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	idx, err := strconv.Atoi(ps.ByName("idx"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	session.RemoveAt(idx)
	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// PATCH /api/itinerary/:shareid/stops/:idx
func (m *Manager) HandleUpdate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	idx, err := strconv.Atoi(ps.ByName("idx"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	var patch StopPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session.UpdateField(idx, patch)
	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// POST /api/itinerary/:shareid/reorder
func (m *Manager) HandleReorder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	var input struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session.MoveTo(input.From, input.To)
	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// PUT /api/itinerary/:shareid/mode
func (m *Manager) HandleSetMode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := m.Get(ps.ByName("shareid"), userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	var input struct {
		Mode models.TravelMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if !input.Mode.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown travel mode")
		return
	}

	session.SetMode(input.Mode)
	utils.RespondWithJSON(w, http.StatusOK, sessionView(session))
}

// POST /api/itinerary/:shareid/save
func (m *Manager) HandleSave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := m.Save(r.Context(), ps.ByName("shareid"), userID); err != nil {
		switch err {
		case ErrNotFound, ErrNoSession, ErrForbidden:
			writeSessionError(w, err)
		default:
			// In-memory session stays authoritative; the client may retry.
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save trip")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip saved successfully"})
}
