package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type SearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"` // Format: YYYY-MM-DD
	ReturnDate    string `json:"returnDate"`
	Passengers    int    `json:"passengers"`
	FareClass     string `json:"fareClass"`
}

type offerAirline struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type offerEndpoint struct {
	Airport string    `json:"airport"`
	Time    time.Time `json:"time"`
}

type Offer struct {
	ID              string        `json:"id"`
	ScheduleID      string        `json:"scheduleId"`
	FareID          string        `json:"fareId"`
	Airline         offerAirline  `json:"airline"`
	FlightNumber    string        `json:"flightNumber"`
	Departure       offerEndpoint `json:"departure"`
	Arrival         offerEndpoint `json:"arrival"`
	DurationMinutes int           `json:"durationMinutes"`
	Stops           int           `json:"stops"`
	FareClass       string        `json:"fareClass"`
	Price           int64         `json:"price"`
	Currency        string        `json:"currency"`
	AvailableSeats  int           `json:"availableSeats"`
	Aircraft        string        `json:"aircraft"`
	Amenities       []string      `json:"amenities"`
}

var carriers = []struct {
	airline  offerAirline
	aircraft string
	base     int64
}{
	{offerAirline{"Vietnam Airlines", "VN"}, "Airbus A321", 2200000},
	{offerAirline{"VietJet Air", "VJ"}, "Airbus A320", 1300000},
	{offerAirline{"Bamboo Airways", "QH"}, "Boeing 787-9", 1900000},
}

var fareMultiplier = map[string]int64{
	"ECONOMY":         1,
	"PREMIUM_ECONOMY": 2,
	"BUSINESS":        4,
	"FIRST":           7,
}

// SearchHandler returns offers derived from the route and date, so repeated searches agree.
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	day, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "departureDate must be YYYY-MM-DD")
		return
	}
	if strings.EqualFold(req.Origin, req.Destination) {
		writeError(w, http.StatusBadRequest, "origin and destination must differ")
		return
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", strings.ToUpper(req.Origin), strings.ToUpper(req.Destination), req.DepartureDate)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	fares := []string{"ECONOMY", "BUSINESS"}
	if req.FareClass != "" {
		fares = []string{strings.ToUpper(req.FareClass)}
	}

	offers := make([]Offer, 0)
	for i, c := range carriers {
		for _, fare := range fares {
			mult, ok := fareMultiplier[fare]
			if !ok {
				continue
			}
			dep := day.Add(time.Duration(6+i*4+rng.Intn(3)) * time.Hour)
			duration := 90 + rng.Intn(60)
			stops := 0
			if rng.Intn(4) == 0 {
				stops = 1
				duration += 75
			}
			seats := 2 + rng.Intn(40)
			if req.Passengers > 0 && seats < req.Passengers {
				continue
			}
			flightNumber := fmt.Sprintf("%s%d", c.airline.Code, 100+rng.Intn(900))
			offers = append(offers, Offer{
				ID:              fmt.Sprintf("%s-%s-%s", flightNumber, req.DepartureDate, fare),
				ScheduleID:      fmt.Sprintf("sch-%s-%d", flightNumber, dep.Unix()),
				FareID:          fmt.Sprintf("fare-%s-%s", flightNumber, strings.ToLower(fare)),
				Airline:         c.airline,
				FlightNumber:    flightNumber,
				Departure:       offerEndpoint{Airport: strings.ToUpper(req.Origin), Time: dep},
				Arrival:         offerEndpoint{Airport: strings.ToUpper(req.Destination), Time: dep.Add(time.Duration(duration) * time.Minute)},
				DurationMinutes: duration,
				Stops:           stops,
				FareClass:       fare,
				Price:           (c.base + int64(rng.Intn(20))*50000) * mult,
				Currency:        "VND",
				AvailableSeats:  seats,
				Aircraft:        c.aircraft,
				Amenities:       []string{"wifi", "meal"}[:1+rng.Intn(2)],
			})
		}
	}

	delay := 50 + rand.Intn(51) // 50 to 100ms
	time.Sleep(time.Duration(delay) * time.Millisecond)

	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}
