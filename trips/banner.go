package trips

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"wayfarer/db"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var bannerDir = "./static/bannerpic"

// POST /api/trips/:shareid/banner
func UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	shareID := ps.ByName("shareid")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB limit
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("banner")
	if err != nil {
		http.Error(w, "Banner file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := filepath.Ext(handler.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		http.Error(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(bannerDir, 0755); err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s%s", shareID, ext)
	path := filepath.Join(bannerDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	if err := utils.CreateThumb(shareID, bannerDir, ext, 300, 200); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", shareID, err)
	}

	bannerURL := "/static/bannerpic/" + filename
	_, err = db.TripsCollection.UpdateOne(ctx, bson.M{"shareid": shareID},
		bson.M{"$set": bson.M{"banner": bannerURL}})
	if err != nil {
		http.Error(w, "Error updating trip", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"bannerUrl": bannerURL})
}
