package plan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"oneclick/models"
)

var (
	ErrNoActivePlan  = errors.New("no active travel plan")
	ErrMissingFields = errors.New("missing required fields")
	ErrItemNotFound  = errors.New("item not found in itinerary")
)

// Store is the durable itinerary store consumed by the engine.
type Store interface {
	// GetByUser returns the user's itinerary, most recently updated
	// first if more than one exists, or nil when there is none.
	GetByUser(ctx context.Context, userID string) (*models.PlanRecord, error)
	Save(ctx context.Context, userID string, plan *models.PlanRecord) (*models.PlanRecord, error)
	AppendToCategory(ctx context.Context, userID, itineraryID string, item models.PlanItem, categoryKey string) error
	RemoveFromCategory(ctx context.Context, userID, itineraryID, itemID, categoryKey string) error
	Delete(ctx context.Context, userID, itineraryID string) error
}

// Result is what every engine operation hands back. Plan is the
// session-visible plan after the operation. Warning carries a store
// failure on a best-effort path: the operation still succeeded for the
// session and the caller decides whether to surface the warning.
type Result struct {
	Plan      *models.PlanRecord
	Duplicate bool
	Message   string
	Warning   error
}

// Engine reconciles the per-session draft plan with the durable
// per-user itinerary. The session plan is passed in and returned as an
// explicit value; the hosting layer persists it between requests.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// PlanInput is the metadata payload of a create/update request.
// Non-empty Attractions/Restaurants replace the draft's collections
// (bulk import); empty ones preserve whatever the draft already holds.
type PlanInput struct {
	Destination string            `json:"destination"`
	Country     string            `json:"country"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Cities      []models.City     `json:"cities"`
	Attractions []models.PlanItem `json:"attractions"`
	Restaurants []models.PlanItem `json:"restaurants"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateOrUpdate overwrites the draft's metadata with in, keeping the
// previously collected attractions/restaurants unless in supplies
// replacements. For an authenticated user the stored itinerary is
// updated (or first created) and the returned plan mirrors the store;
// a store failure is reported as a warning, never as an error.
func (e *Engine) CreateOrUpdate(ctx context.Context, sess *models.PlanRecord, in PlanInput, userID string) (Result, error) {
	if in.Destination == "" {
		return Result{}, fmt.Errorf("%w: destination is required", ErrMissingFields)
	}

	next := &models.PlanRecord{
		Destination: in.Destination,
		Country:     in.Country,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Cities:      in.Cities,
		Attractions: in.Attractions,
		Restaurants: in.Restaurants,
		CreatedAt:   nowISO(),
	}
	if sess != nil {
		if len(in.Attractions) == 0 {
			next.Attractions = sess.Attractions
		}
		if len(in.Restaurants) == 0 {
			next.Restaurants = sess.Restaurants
		}
		if sess.CreatedAt != "" {
			next.CreatedAt = sess.CreatedAt
		}
	}
	if next.Attractions == nil {
		next.Attractions = []models.PlanItem{}
	}
	if next.Restaurants == nil {
		next.Restaurants = []models.PlanItem{}
	}

	if userID == "" {
		return Result{Plan: next}, nil
	}

	existing, err := e.store.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching itinerary for %s: %v", userID, err)
		return Result{Plan: next, Warning: err}, nil
	}

	target := next
	if existing != nil {
		existing.Destination = in.Destination
		existing.Country = in.Country
		existing.StartDate = in.StartDate
		existing.EndDate = in.EndDate
		existing.Cities = in.Cities
		if len(in.Attractions) > 0 {
			existing.Attractions = in.Attractions
		}
		if len(in.Restaurants) > 0 {
			existing.Restaurants = in.Restaurants
		}
		target = existing
	}

	saved, err := e.store.Save(ctx, userID, target)
	if err != nil {
		log.Printf("Error saving itinerary for %s: %v", userID, err)
		return Result{Plan: next, Warning: err}, nil
	}
	return Result{Plan: saved}, nil
}

// AddItem appends item to the draft's category collection unless the
// duplicate guard rejects it. A bound plan is also synced to the store,
// best-effort.
func (e *Engine) AddItem(ctx context.Context, sess *models.PlanRecord, category string, item models.PlanItem, userID string) (Result, error) {
	if sess == nil {
		return Result{}, ErrNoActivePlan
	}
	key, err := ResolveCategoryKey(category)
	if err != nil {
		return Result{}, err
	}
	if item.ID == "" || item.Name == "" {
		return Result{}, ErrMissingFields
	}
	item.AddedAt = nowISO()

	items := CategoryItems(sess, key)
	if IsDuplicate(*items, item, key) {
		return Result{
			Plan:      sess,
			Duplicate: true,
			Message:   fmt.Sprintf("This %s is already in your itinerary", strings.TrimSuffix(key, "s")),
		}, nil
	}
	*items = append(*items, item)

	var warning error
	if userID != "" && sess.ItineraryID != "" {
		if err := e.store.AppendToCategory(ctx, userID, sess.ItineraryID, item, key); err != nil {
			log.Printf("Error adding %s to store: %v", key, err)
			warning = err
		}
	}
	return Result{Plan: sess, Warning: warning}, nil
}

// RemoveItem filters id out of the category collection. A missing id is
// a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, sess *models.PlanRecord, category, id, userID string) (Result, error) {
	if sess == nil {
		return Result{}, ErrNoActivePlan
	}
	key, err := ResolveCategoryKey(category)
	if err != nil {
		return Result{}, err
	}

	items := CategoryItems(sess, key)
	kept := (*items)[:0:0]
	for _, item := range *items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	*items = kept

	var warning error
	if userID != "" && sess.ItineraryID != "" {
		if err := e.store.RemoveFromCategory(ctx, userID, sess.ItineraryID, id, key); err != nil {
			log.Printf("Error removing %s from store: %v", key, err)
			warning = err
		}
	}
	return Result{Plan: sess, Warning: warning}, nil
}

// UpdateHotelNotes edits the notes of a hotel already in the plan. The
// store has no per-item update, so a bound plan is re-saved whole
// (read-modify-write), best-effort.
func (e *Engine) UpdateHotelNotes(ctx context.Context, sess *models.PlanRecord, id, notes, userID string) (Result, error) {
	if sess == nil {
		return Result{}, ErrNoActivePlan
	}
	found := false
	for i := range sess.Hotels {
		if sess.Hotels[i].ID == id {
			sess.Hotels[i].Notes = notes
			found = true
			break
		}
	}
	if !found {
		return Result{}, ErrItemNotFound
	}

	var warning error
	if userID != "" && sess.ItineraryID != "" {
		if _, err := e.store.Save(ctx, userID, sess); err != nil {
			log.Printf("Error updating hotel in store: %v", err)
			warning = err
		}
	}
	return Result{Plan: sess, Warning: warning}, nil
}

// Fetch returns the authoritative plan: the stored record for an
// authenticated user when one exists, otherwise the session draft. The
// returned plan may be nil.
func (e *Engine) Fetch(ctx context.Context, sess *models.PlanRecord, userID string) Result {
	if userID == "" {
		return Result{Plan: sess}
	}
	rec, err := e.store.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching itinerary for %s: %v", userID, err)
		return Result{Plan: sess, Warning: err}
	}
	if rec != nil {
		return Result{Plan: rec}
	}
	return Result{Plan: sess}
}

// Clear handles the durable side of clearing a plan; discarding the
// session draft is the hosting layer's job and always succeeds. Store
// failures are reported as warnings.
func (e *Engine) Clear(ctx context.Context, userID string) Result {
	if userID == "" {
		return Result{}
	}
	rec, err := e.store.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching itinerary for %s: %v", userID, err)
		return Result{Warning: err}
	}
	if rec == nil {
		return Result{}
	}
	if err := e.store.Delete(ctx, userID, rec.ItineraryID); err != nil {
		log.Printf("Error clearing itinerary for %s: %v", userID, err)
		return Result{Warning: err}
	}
	return Result{}
}

// Migrate moves the anonymous session draft into durable storage right
// after login. An existing stored itinerary wins: the draft is
// discarded and the stored record adopted. Calling again after a
// successful migration is a no-op returning the same record. Unlike the
// best-effort mutations, a store failure here fails the call.
func (e *Engine) Migrate(ctx context.Context, sess *models.PlanRecord, userID string) (Result, error) {
	if sess == nil || sess.Destination == "" {
		return Result{Plan: sess, Message: "No plan to migrate"}, nil
	}

	existing, err := e.store.GetByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return Result{Plan: existing, Message: "Using existing plan from database"}, nil
	}

	saved, err := e.store.Save(ctx, userID, sess)
	if err != nil {
		return Result{}, err
	}
	return Result{Plan: saved, Message: "Plan migrated successfully"}, nil
}
