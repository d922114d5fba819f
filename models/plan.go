package models

// PlanRecord is a travel plan. A draft held only in the session cache
// has no UserID or ItineraryID; both are assigned on first persistence.
type PlanRecord struct {
	UserID      string     `json:"userId,omitempty" bson:"user_id,omitempty"`
	ItineraryID string     `json:"itineraryId,omitempty" bson:"itineraryid,omitempty"`
	Destination string     `json:"destination" bson:"destination"`
	Country     string     `json:"country,omitempty" bson:"country,omitempty"`
	StartDate   string     `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate     string     `json:"endDate,omitempty" bson:"end_date,omitempty"`
	Cities      []City     `json:"cities,omitempty" bson:"cities,omitempty"`
	Attractions []PlanItem `json:"attractions" bson:"attractions"`
	Restaurants []PlanItem `json:"restaurants" bson:"restaurants"`
	Hotels      []PlanItem `json:"hotels,omitempty" bson:"hotels,omitempty"`
	Flights     []PlanItem `json:"flights,omitempty" bson:"flights,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// City keeps its position in the slice; the order is the visiting order.
type City struct {
	Name string `json:"name" bson:"name"`
	Days int    `json:"days" bson:"days"`
}

// PlanItem is a single itinerary entry. One shape covers all four
// categories; the flight-only fields stay empty for places and hotels.
type PlanItem struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	Notes   string `json:"notes" bson:"notes"`
	Indoor  bool   `json:"indoor,omitempty" bson:"indoor,omitempty"`
	// DayIndex assigns the entry to a trip day; nil means unassigned.
	DayIndex *int `json:"dayIndex" bson:"day_index"`

	Airline          string  `json:"airline,omitempty" bson:"airline,omitempty"`
	FlightNumber     string  `json:"flightNumber,omitempty" bson:"flight_number,omitempty"`
	DepartureTime    string  `json:"departureTime,omitempty" bson:"departure_time,omitempty"`
	ArrivalTime      string  `json:"arrivalTime,omitempty" bson:"arrival_time,omitempty"`
	DepartureAirport string  `json:"departureAirport,omitempty" bson:"departure_airport,omitempty"`
	ArrivalAirport   string  `json:"arrivalAirport,omitempty" bson:"arrival_airport,omitempty"`
	Price            float64 `json:"price,omitempty" bson:"price,omitempty"`
	Duration         string  `json:"duration,omitempty" bson:"duration,omitempty"`
	Stops            int     `json:"stops,omitempty" bson:"stops,omitempty"`
	Class            string  `json:"class,omitempty" bson:"class,omitempty"`

	AddedAt string `json:"addedAt" bson:"added_at"`
}
