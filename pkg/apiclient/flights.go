package apiclient

import (
	"context"
	"net/http"
	"time"
)

// Fare classes offered on a flight.
const (
	FareEconomy        = "ECONOMY"
	FarePremiumEconomy = "PREMIUM_ECONOMY"
	FareBusiness       = "BUSINESS"
	FareFirst          = "FIRST"
)

type Flight struct {
	ID                  string `json:"id"`
	FlightNumber        string `json:"flightNumber"`
	AirlineID           string `json:"airlineId"`
	AirlineName         string `json:"airlineName,omitempty"`
	AirlineCode         string `json:"airlineCode,omitempty"`
	OriginCode          string `json:"originCode"`
	DestinationCode     string `json:"destinationCode"`
	BaseDurationMinutes int    `json:"baseDurationMinutes"`
	Status              string `json:"status,omitempty"`
}

type FlightInput struct {
	FlightNumber        string `json:"flightNumber" validate:"required,flight_number"`
	AirlineID           string `json:"airlineId" validate:"required"`
	OriginCode          string `json:"originCode" validate:"required,iata_airport"`
	DestinationCode     string `json:"destinationCode" validate:"required,iata_airport,nefield=OriginCode"`
	BaseDurationMinutes int    `json:"baseDurationMinutes" validate:"required,min=30,max=1200"`
	Status              string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type FlightSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Passengers    int    `json:"passengers"`
	FareClass     string `json:"fareClass,omitempty"`
}

type OfferAirline struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type OfferEndpoint struct {
	Airport string    `json:"airport"`
	City    string    `json:"city,omitempty"`
	Time    time.Time `json:"time"`
}

type FlightOffer struct {
	ID              string        `json:"id"`
	ScheduleID      string        `json:"scheduleId,omitempty"`
	FareID          string        `json:"fareId,omitempty"`
	Airline         OfferAirline  `json:"airline"`
	FlightNumber    string        `json:"flightNumber"`
	Departure       OfferEndpoint `json:"departure"`
	Arrival         OfferEndpoint `json:"arrival"`
	DurationMinutes int           `json:"durationMinutes"`
	Stops           int           `json:"stops"`
	FareClass       string        `json:"fareClass"`
	Price           int64         `json:"price"`
	Currency        string        `json:"currency"`
	AvailableSeats  int           `json:"availableSeats"`
	Aircraft        string        `json:"aircraft,omitempty"`
	Amenities       []string      `json:"amenities,omitempty"`
}

type FlightSearchResult struct {
	Offers []FlightOffer `json:"offers"`
}

type FlightsClient struct {
	crud[Flight, FlightInput]
}

func NewFlightsClient(c *Client) *FlightsClient {
	return &FlightsClient{crud[Flight, FlightInput]{c: c, resource: "flights", base: "/api/v1/flights"}}
}

// Search asks the backend for bookable offers matching req.
func (f *FlightsClient) Search(ctx context.Context, req FlightSearchRequest) (*FlightSearchResult, error) {
	var out FlightSearchResult
	err := f.c.do(ctx, request{
		method:   http.MethodPost,
		path:     f.base + "/search",
		resource: "flights.search",
		body:     req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
