package routes

import (
	"oneclick/auth"
	"oneclick/export"
	"oneclick/flights"
	"oneclick/hotels"
	"oneclick/middleware"
	"oneclick/places"
	"oneclick/plan"
	"oneclick/ratelim"
	"oneclick/session"
	"oneclick/weather"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.GET("/api/auth/logout", auth.Logout)
	router.GET("/api/auth/user", auth.CurrentUser)
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

// Plan routes all run behind Ensure so a session cookie always exists,
// and OptionalAuth so logged-in users get database persistence while
// anonymous visitors keep a session-only draft.
func AddPlanRoutes(router *httprouter.Router, h *plan.Handler, e *export.Handler) {
	wrap := func(next httprouter.Handle) httprouter.Handle {
		return session.Ensure(middleware.OptionalAuth(next))
	}

	router.POST("/api/plan", wrap(h.CreateOrUpdatePlan))
	router.GET("/api/plan", wrap(h.GetPlan))
	router.DELETE("/api/plan", wrap(h.ClearPlan))

	router.POST("/api/plan/places", wrap(h.AddPlace))
	router.POST("/api/plan/hotels", wrap(h.AddHotel))
	router.PUT("/api/plan/hotels/:id", wrap(h.UpdateHotel))
	router.POST("/api/plan/flights", wrap(h.AddFlight))

	router.GET("/api/plan/export/pdf", wrap(e.PDF))
	router.GET("/api/plan/share/qr", wrap(e.ShareQR))

	// Migration needs a real identity to attach the plan to.
	router.POST("/api/plan/migrate", session.Ensure(middleware.Authenticate(h.MigratePlan)))

	// One wildcard remove covers every category, flights included;
	// a parallel /api/plan/flights/:id route would conflict with it.
	router.DELETE("/api/plan/:category/:id", wrap(h.RemoveItem))
}

func AddPlacesRoutes(router *httprouter.Router, h *places.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/places", rl.Limit(h.Search))
	router.GET("/api/places/:id", rl.Limit(h.Details))
}

func AddFlightRoutes(router *httprouter.Router, h *flights.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/flights/search", rl.Limit(h.Search))
	router.GET("/api/flights/locations/search", rl.Limit(h.SearchLocations))
}

func AddHotelRoutes(router *httprouter.Router, h *hotels.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/hotels/search/city", rl.Limit(h.SearchByCity))
	router.GET("/api/hotels/offers", rl.Limit(h.SearchOffers))
}

func AddWeatherRoutes(router *httprouter.Router, h *weather.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/weather", rl.Limit(h.GetForecast))
}
