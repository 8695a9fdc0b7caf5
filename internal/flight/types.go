package flight

import (
	"errors"
	"time"

	"travel/pkg/format"
)

var ErrOfferNotFound = errors.New("flight offer is no longer available; search again")

type SearchRequest struct {
	Origin        string `json:"origin" validate:"required,iata_airport"`
	Destination   string `json:"destination" validate:"required,iata_airport,nefield=Origin"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Passengers    int    `json:"passengers" validate:"min=0,max=9"`
	FareClass     string `json:"fare_class,omitempty" validate:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
}

type FlightSearchResponse struct {
	SearchCriteria SearchRequest `json:"search_criteria"`
	Metadata       Metadata      `json:"metadata"`
	Flights        []Flight      `json:"flights"`
}

type Metadata struct {
	TotalResults int    `json:"total_results"`
	SearchTimeMs int64  `json:"search_time_ms"`
	CacheKey     string `json:"cache_key,omitempty"`
	CacheHit     bool   `json:"cache_hit"`
}

type Flight struct {
	ID             string       `json:"id"`
	ScheduleID     string       `json:"schedule_id,omitempty"`
	FareID         string       `json:"fare_id,omitempty"`
	Airline        Airline      `json:"airline"`
	FlightNumber   string       `json:"flight_number"`
	Departure      LocationTime `json:"departure"`
	Arrival        LocationTime `json:"arrival"`
	Duration       Duration     `json:"duration"`
	Stops          int          `json:"stops"`
	Price          format.Money `json:"price"`
	PriceFormatted string       `json:"price_formatted,omitempty"`
	AvailableSeats int          `json:"available_seats"`
	FareClass      string       `json:"fare_class"`
	Aircraft       string       `json:"aircraft,omitempty"`
	Amenities      []string     `json:"amenities,omitempty"`
	BestValueScore *float64     `json:"best_value_score,omitempty"` // Only included when sorting by best_value
}

type Airline struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type LocationTime struct {
	Airport   string    `json:"airport"`
	City      string    `json:"city,omitempty"`
	Datetime  time.Time `json:"datetime"`
	Timestamp int64     `json:"timestamp"`
}

type Duration struct {
	TotalMinutes int    `json:"total_minutes"`
	Formatted    string `json:"formatted"`
}

type PriceRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type FilterOptions struct {
	PriceRange    *PriceRange `json:"price_range,omitempty"`
	MaxStops      *int        `json:"max_stops,omitempty"`
	DepartureTime *TimeWindow `json:"departure_time,omitempty"`
	ArrivalTime   *TimeWindow `json:"arrival_time,omitempty"`
	Airlines      []string    `json:"airlines,omitempty"`
	MaxDuration   *int        `json:"max_duration,omitempty"`
	FareClasses   []string    `json:"fare_classes,omitempty"`
}

type SortOptions struct {
	By    string `json:"by"`    // price, duration, departure_time, arrival_time, best_value
	Order string `json:"order"` // asc, desc
}

type FilterRequest struct {
	SearchRequest
	Filters *FilterOptions `json:"filters,omitempty"`
	Sort    *SortOptions   `json:"sort,omitempty"`
}

type SelectRequest struct {
	SearchRequest
	OfferID string `json:"offer_id" validate:"required"`
}
