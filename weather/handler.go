package weather

import (
	"log"
	"net/http"

	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	provider Provider
}

func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

// GET /api/weather?city=
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	city := r.URL.Query().Get("city")
	if city == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "City is required")
		return
	}

	forecast, err := h.provider.GetForecast(r.Context(), city)
	if err != nil {
		log.Printf("Weather API error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch weather forecast")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, Summarize(forecast))
}
