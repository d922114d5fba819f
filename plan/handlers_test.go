package plan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oneclick/globals"
	"oneclick/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

func contextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, globals.UserIDKey, userID)
}

// memSessions is an in-memory SessionCache for handler tests.
type memSessions struct {
	drafts map[string]*models.PlanRecord
}

func newMemSessions() *memSessions {
	return &memSessions{drafts: make(map[string]*models.PlanRecord)}
}

func (m *memSessions) Get(_ context.Context, sid string) (*models.PlanRecord, error) {
	return m.drafts[sid], nil
}

func (m *memSessions) Put(_ context.Context, sid string, p *models.PlanRecord) error {
	if p == nil {
		delete(m.drafts, sid)
		return nil
	}
	m.drafts[sid] = p
	return nil
}

func (m *memSessions) Delete(_ context.Context, sid string) error {
	delete(m.drafts, sid)
	return nil
}

type emitted struct {
	op    string
	cause error
}

func newTestHandler(store Store) (*Handler, *memSessions, *[]emitted) {
	sessions := newMemSessions()
	handler := NewHandler(NewEngine(store), sessions)
	var events []emitted
	handler.emit = func(_ context.Context, op, _, _ string, cause error) {
		events = append(events, emitted{op: op, cause: cause})
	}
	return handler, sessions, &events
}

func doJSON(t *testing.T, handle httprouter.Handle, method, target, body string, ps httprouter.Params) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	handle(w, r, ps)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func TestCreateOrUpdatePlanHandler(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())

	w, body := doJSON(t, handler.CreateOrUpdatePlan, http.MethodPost, "/api/plan",
		`{"destination":"Tokyo","country":"Japan"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	plan := body["plan"].(map[string]interface{})
	require.Equal(t, "Tokyo", plan["destination"])

	// draft persisted for the (empty) session id
	require.NotNil(t, sessions.drafts[""])
}

func TestCreateOrUpdatePlanHandlerMissingDestination(t *testing.T) {
	handler, _, _ := newTestHandler(newFakeStore())

	w, body := doJSON(t, handler.CreateOrUpdatePlan, http.MethodPost, "/api/plan", `{}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Destination is required", body["error"])
}

func TestAddPlaceHandlerNoActivePlan(t *testing.T) {
	handler, _, _ := newTestHandler(newFakeStore())

	w, body := doJSON(t, handler.AddPlace, http.MethodPost, "/api/plan/places",
		`{"placeId":"a1","name":"Senso-ji","category":"attraction"}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "No active travel plan", body["error"])
}

func TestAddPlaceHandlerDuplicateResponse(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{
		Destination: "Tokyo",
		Attractions: []models.PlanItem{{ID: "a1", Name: "Senso-ji"}},
	}

	w, body := doJSON(t, handler.AddPlace, http.MethodPost, "/api/plan/places",
		`{"placeId":"a1","name":"Senso-ji","category":"attraction"}`, nil)

	require.Equal(t, http.StatusOK, w.Code, "duplicates answer 200, not an error status")
	require.Equal(t, false, body["success"])
	require.Equal(t, true, body["duplicate"])
	require.Equal(t, "This attraction is already in your itinerary", body["message"])
}

func TestAddPlaceHandlerUnknownCategory(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.AddPlace, http.MethodPost, "/api/plan/places",
		`{"placeId":"m1","name":"Louvre","category":"museum"}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid category: museum", body["error"])
}

func TestAddFlightHandlerGeneratesIDAndName(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.AddFlight, http.MethodPost, "/api/plan/flights",
		`{"flight":{"airline":"ANA","flightNumber":"105","departureAirport":"SFO","arrivalAirport":"HND","departureTime":"2026-09-01T10:30:00"}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	flight := body["flight"].(map[string]interface{})
	require.Equal(t, "ANA 105", flight["name"])
	require.True(t, strings.HasPrefix(flight["id"].(string), "flight-"))
}

func TestAddFlightHandlerMissingDetails(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.AddFlight, http.MethodPost, "/api/plan/flights",
		`{"flight":{"airline":"ANA"}}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing required flight details", body["error"])
}

func TestUpdateHotelHandlerNotFound(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.UpdateHotel, http.MethodPut, "/api/plan/hotels/h1",
		`{"notes":"late checkout"}`, httprouter.Params{{Key: "id", Value: "h1"}})

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Hotel not found in itinerary", body["error"])
}

func TestUpdateHotelHandlerEditsNotes(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{
		Destination: "Tokyo",
		Hotels:      []models.PlanItem{{ID: "h1", Name: "Park Hyatt"}},
	}

	w, body := doJSON(t, handler.UpdateHotel, http.MethodPut, "/api/plan/hotels/h1",
		`{"notes":"late checkout"}`, httprouter.Params{{Key: "id", Value: "h1"}})

	require.Equal(t, http.StatusOK, w.Code)
	hotel := body["hotel"].(map[string]interface{})
	require.Equal(t, "late checkout", hotel["notes"])
}

func TestRemoveItemHandler(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{
		Destination: "Tokyo",
		Restaurants: []models.PlanItem{{ID: "r1", Name: "Ichiran"}},
	}

	w, body := doJSON(t, handler.RemoveItem, http.MethodDelete, "/api/plan/restaurants/r1", "",
		httprouter.Params{{Key: "category", Value: "restaurants"}, {Key: "id", Value: "r1"}})

	require.Equal(t, http.StatusOK, w.Code)
	plan := body["plan"].(map[string]interface{})
	require.Empty(t, plan["restaurants"])
}

func TestClearPlanHandler(t *testing.T) {
	handler, sessions, _ := newTestHandler(newFakeStore())
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.ClearPlan, http.MethodDelete, "/api/plan", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Plan cleared successfully", body["message"])
	require.Nil(t, sessions.drafts[""])
}

func TestMigratePlanHandlerStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failSave = true
	handler, sessions, _ := newTestHandler(store)
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo"}

	w, body := doJSON(t, handler.MigratePlan, http.MethodPost, "/api/plan/migrate", "", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Failed to migrate plan", body["error"])
}

func TestAddItemEmitsSyncWarning(t *testing.T) {
	store := newFakeStore()
	store.failAppend = true
	handler, sessions, events := newTestHandler(store)
	sessions.drafts[""] = &models.PlanRecord{Destination: "Tokyo", ItineraryID: "itin-1"}

	// authenticated request: user id in context
	r := httptest.NewRequest(http.MethodPost, "/api/plan/hotels",
		strings.NewReader(`{"hotelId":"h1","name":"Park Hyatt"}`))
	r = r.WithContext(contextWithUser(r.Context(), "user1"))
	w := httptest.NewRecorder()
	handler.AddHotel(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code, "store failure stays invisible to the client")
	require.Len(t, *events, 1)
	require.Equal(t, "plan.add.hotel", (*events)[0].op)
	require.ErrorIs(t, (*events)[0].cause, errStore)
}
