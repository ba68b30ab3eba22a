package routes

import (
	"net/http"

	"wayfarer/auth"
	"wayfarer/geocode"
	"wayfarer/itinerary"
	"wayfarer/middleware"
	"wayfarer/ratelim"
	"wayfarer/trips"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/bannerpic/*filepath", http.Dir("static/bannerpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddTripRoutes(router *httprouter.Router) {
	router.POST("/api/trips", middleware.Authenticate(trips.CreateTrip))
	router.GET("/api/trips", middleware.Authenticate(trips.GetTrips))
	router.GET("/api/trips/:shareid", middleware.Authenticate(trips.GetTrip))
	router.PUT("/api/trips/:shareid", middleware.Authenticate(trips.UpdateTrip))
	router.DELETE("/api/trips/:shareid", middleware.Authenticate(trips.DeleteTrip))
	router.GET("/api/trips/:shareid/cost", middleware.Authenticate(trips.GetTripCost))
	router.POST("/api/trips/:shareid/banner", middleware.Authenticate(trips.UploadBanner))

	// Public share surface; the share id is the access token.
	router.GET("/api/trips/:shareid/public", ratelim.RateLimit(trips.GetPublicTrip))
	router.GET("/api/trips/:shareid/qr", ratelim.RateLimit(trips.ShareQR))
	router.GET("/api/trips/:shareid/print", ratelim.RateLimit(trips.PrintTrip))
}

func AddItineraryRoutes(router *httprouter.Router, mgr *itinerary.Manager) {
	router.POST("/api/itinerary/:shareid/open", middleware.Authenticate(mgr.HandleOpen))
	router.GET("/api/itinerary/:shareid", middleware.Authenticate(mgr.HandleGet))
	router.POST("/api/itinerary/:shareid/stops", middleware.Authenticate(mgr.HandleInsert))
	router.DELETE("/api/itinerary/:shareid/stops/:idx", middleware.Authenticate(mgr.HandleRemove))
	router.PATCH("/api/itinerary/:shareid/stops/:idx", middleware.Authenticate(mgr.HandleUpdate))
	router.POST("/api/itinerary/:shareid/reorder", middleware.Authenticate(mgr.HandleReorder))
	router.PUT("/api/itinerary/:shareid/mode", middleware.Authenticate(mgr.HandleSetMode))
	router.POST("/api/itinerary/:shareid/save", middleware.Authenticate(mgr.HandleSave))
	router.GET("/api/itinerary/:shareid/live", middleware.Authenticate(mgr.HandleLive))
}

func AddGeocodeRoutes(router *httprouter.Router, gc *geocode.Client) {
	router.GET("/api/geocode/reverse", ratelim.RateLimit(gc.HandleReverse))
}
