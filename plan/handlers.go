package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"oneclick/middleware"
	"oneclick/models"
	"oneclick/mq"
	"oneclick/session"
	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
)

// SessionCache is the per-browser-session draft holder the handlers
// load from and write back to around every engine call.
type SessionCache interface {
	Get(ctx context.Context, sid string) (*models.PlanRecord, error)
	Put(ctx context.Context, sid string, p *models.PlanRecord) error
	Delete(ctx context.Context, sid string) error
}

type Handler struct {
	engine   *Engine
	sessions SessionCache
	emit     func(ctx context.Context, op, userID, sessionID string, cause error)
}

func NewHandler(engine *Engine, sessions SessionCache) *Handler {
	return &Handler{
		engine:   engine,
		sessions: sessions,
		emit:     mq.EmitSyncWarning,
	}
}

func (h *Handler) loadDraft(r *http.Request) (string, string, *models.PlanRecord) {
	sid := session.ID(r)
	userID := middleware.RequestingUserID(r)
	draft, err := h.sessions.Get(r.Context(), sid)
	if err != nil {
		log.Printf("Session cache read failed for %s: %v", sid, err)
	}
	return sid, userID, draft
}

// finish writes the plan back to the session, reports any best-effort
// sync warning, and never fails the request on either.
func (h *Handler) finish(r *http.Request, op, sid, userID string, res Result) {
	if err := h.sessions.Put(r.Context(), sid, res.Plan); err != nil {
		log.Printf("Session cache write failed for %s: %v", sid, err)
	}
	if res.Warning != nil {
		h.emit(r.Context(), op, userID, sid, res.Warning)
	}
}

// POST /api/plan
func (h *Handler) CreateOrUpdatePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in PlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sid, userID, draft := h.loadDraft(r)
	res, err := h.engine.CreateOrUpdate(r.Context(), draft, in, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Destination is required")
		return
	}
	h.finish(r, "plan.save", sid, userID, res)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "plan": res.Plan})
}

// GET /api/plan
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, userID, draft := h.loadDraft(r)

	res := h.engine.Fetch(r.Context(), draft, userID)
	if res.Plan != nil {
		h.finish(r, "plan.fetch", sid, userID, res)
	} else if res.Warning != nil {
		h.emit(r.Context(), "plan.fetch", userID, sid, res.Warning)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"plan": res.Plan})
}

type placeRequest struct {
	PlaceID  string `json:"placeId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
	Indoor   bool   `json:"indoor"`
	DayIndex *int   `json:"dayIndex"`
}

// POST /api/plan/places
func (h *Handler) AddPlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.PlaceID == "" || req.Name == "" || req.Category == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	item := models.PlanItem{
		ID:       req.PlaceID,
		Name:     req.Name,
		Address:  req.Address,
		Notes:    req.Notes,
		Indoor:   req.Indoor,
		DayIndex: req.DayIndex,
	}
	h.addItem(w, r, req.Category, item)
}

type hotelRequest struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
	Notes   string `json:"notes"`
}

// POST /api/plan/hotels
func (h *Handler) AddHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req hotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.HotelID == "" || req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	h.addItem(w, r, "hotel", models.PlanItem{ID: req.HotelID, Name: req.Name, Notes: req.Notes})
}

type flightRequest struct {
	Flight struct {
		ID               string  `json:"id"`
		Airline          string  `json:"airline"`
		FlightNumber     string  `json:"flightNumber"`
		DepartureTime    string  `json:"departureTime"`
		ArrivalTime      string  `json:"arrivalTime"`
		DepartureAirport string  `json:"departureAirport"`
		ArrivalAirport   string  `json:"arrivalAirport"`
		Price            float64 `json:"price"`
		Duration         string  `json:"duration"`
		Stops            int     `json:"stops"`
		Class            string  `json:"class"`
	} `json:"flight"`
	Notes string `json:"notes"`
}

// POST /api/plan/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req flightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	f := req.Flight
	if f.Airline == "" || f.DepartureAirport == "" || f.ArrivalAirport == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required flight details")
		return
	}

	flightID := f.ID
	if flightID == "" {
		flightID = "flight-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	item := models.PlanItem{
		ID:               flightID,
		Name:             strings.TrimSpace(f.Airline + " " + f.FlightNumber),
		Airline:          f.Airline,
		FlightNumber:     f.FlightNumber,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		Price:            f.Price,
		Duration:         f.Duration,
		Stops:            f.Stops,
		Class:            f.Class,
		Notes:            req.Notes,
	}
	h.addItem(w, r, "flight", item)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request, category string, item models.PlanItem) {
	sid, userID, draft := h.loadDraft(r)

	res, err := h.engine.AddItem(r.Context(), draft, category, item, userID)
	if err != nil {
		h.respondPlanError(w, err, category)
		return
	}
	if res.Duplicate {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success":   false,
			"duplicate": true,
			"message":   res.Message,
		})
		return
	}
	h.finish(r, "plan.add."+category, sid, userID, res)

	body := utils.M{"success": true, "plan": res.Plan}
	if key, _ := ResolveCategoryKey(category); key == KeyFlights {
		body["flight"] = item
	}
	utils.RespondWithJSON(w, http.StatusOK, body)
}

type hotelNotesRequest struct {
	Notes *string `json:"notes"`
}

// PUT /api/plan/hotels/:id
func (h *Handler) UpdateHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req hotelNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sid, userID, draft := h.loadDraft(r)
	if req.Notes == nil {
		// Nothing to change; echo the current state.
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "plan": draft})
		return
	}

	res, err := h.engine.UpdateHotelNotes(r.Context(), draft, id, *req.Notes, userID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Hotel not found in itinerary")
			return
		}
		h.respondPlanError(w, err, "hotel")
		return
	}
	h.finish(r, "plan.updatehotel", sid, userID, res)

	var hotel *models.PlanItem
	for i := range res.Plan.Hotels {
		if res.Plan.Hotels[i].ID == id {
			hotel = &res.Plan.Hotels[i]
			break
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "hotel": hotel, "plan": res.Plan})
}

// DELETE /api/plan/:category/:id
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.removeItem(w, r, ps.ByName("category"), ps.ByName("id"))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request, category, id string) {
	sid, userID, draft := h.loadDraft(r)

	res, err := h.engine.RemoveItem(r.Context(), draft, category, id, userID)
	if err != nil {
		h.respondPlanError(w, err, category)
		return
	}
	h.finish(r, "plan.remove."+category, sid, userID, res)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "plan": res.Plan})
}

// DELETE /api/plan
func (h *Handler) ClearPlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := session.ID(r)
	userID := middleware.RequestingUserID(r)

	// Clearing the session draft always succeeds.
	if err := h.sessions.Delete(r.Context(), sid); err != nil {
		log.Printf("Session cache delete failed for %s: %v", sid, err)
	}

	res := h.engine.Clear(r.Context(), userID)
	if res.Warning != nil {
		h.emit(r.Context(), "plan.clear", userID, sid, res.Warning)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Plan cleared successfully"})
}

// POST /api/plan/migrate — requires authentication.
func (h *Handler) MigratePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, userID, draft := h.loadDraft(r)

	res, err := h.engine.Migrate(r.Context(), draft, userID)
	if err != nil {
		log.Printf("Error migrating plan for %s: %v", userID, err)
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
			"success": false,
			"error":   "Failed to migrate plan",
		})
		return
	}
	if res.Plan != nil {
		if err := h.sessions.Put(r.Context(), sid, res.Plan); err != nil {
			log.Printf("Session cache write failed for %s: %v", sid, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": res.Message})
}

func (h *Handler) respondPlanError(w http.ResponseWriter, err error, category string) {
	switch {
	case errors.Is(err, ErrNoActivePlan):
		utils.RespondWithError(w, http.StatusBadRequest, "No active travel plan")
	case errors.Is(err, ErrUnknownCategory):
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid category: %s", category))
	case errors.Is(err, ErrMissingFields):
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
